//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Command yaogc runs one party of the two-party garbled-circuit
// protocol, or the in-process local tester, over a circuit loaded from
// a JSON circuit file. It is a thin flag-driven front-end (component
// I), grounded on apps/garbled/main.go's plain flag-based CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/twoparty/yaogc/circuitfile"
	"github.com/twoparty/yaogc/localtest"
	"github.com/twoparty/yaogc/protocol"
	"github.com/twoparty/yaogc/wire"
	"github.com/twoparty/yaogc/yao"
)

func main() {
	role := flag.String("role", "local", "garbler, evaluator, or local")
	circuitPath := flag.String("circuit", "", "circuit file path (required)")
	circuitID := flag.String("id", "", "circuit id within the file (default: first)")
	addr := flag.String("addr", ":8080", "network address to listen on or dial")
	disableOT := flag.Bool("disable-ot", false,
		"skip oblivious transfer and reveal labels directly (insecure, debug only)")
	print := flag.String("print", "table", "local mode output: circuit (truth table) or table (garbled tables)")
	alice := flag.Int("alice", 0, "garbler role: bitmask of Alice's input wires, LSB first")
	bob := flag.Int("bob", 0, "evaluator role: bitmask of Bob's input wires, LSB first")
	loglevel := flag.String("loglevel", "info", "debug, info, or error")
	flag.Parse()

	if *loglevel == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	if *circuitPath == "" {
		fmt.Fprintln(os.Stderr, "circuit file not specified")
		os.Exit(1)
	}

	doc, err := circuitfile.Load(*circuitPath)
	if err != nil {
		log.Fatalf("failed to load circuit file %q: %v", *circuitPath, err)
	}

	id := *circuitID
	if id == "" {
		id = doc.Circuits[0].ID
	}
	circ, err := doc.Find(id)
	if err != nil {
		log.Fatal(err)
	}

	switch *role {
	case "local":
		if *print == "table" {
			err = localtest.PrintTables(circ, os.Stdout)
		} else {
			err = localtest.PrintTruthTable(circ, os.Stdout)
		}
	case "garbler":
		err = runGarbler(circ, *addr, *disableOT, *alice)
	case "evaluator":
		err = runEvaluator(circ, *addr, *bob)
	default:
		err = fmt.Errorf("unknown role %q", *role)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// bitsFromMask maps each wire in wires, in order, to bit i of mask.
func bitsFromMask(wires []int, mask int) map[int]int {
	bits := make(map[int]int, len(wires))
	for i, w := range wires {
		bits[w] = (mask >> i) & 1
	}
	return bits
}

func runGarbler(circ *yao.Circuit, addr string, disableOT bool, alice int) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	log.Printf("garbler listening on %s for circuit %q", addr, circ.ID)

	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("evaluator connected from %s", conn.RemoteAddr())

	state, err := protocol.NewGarblerState(circ, disableOT)
	if err != nil {
		return err
	}
	defer state.Wipe()

	out, err := protocol.RunGarbler(wire.NewConn(conn), state,
		bitsFromMask(circ.Alice, alice))
	if err != nil {
		return err
	}
	log.Printf("output: %v", out)
	return nil
}

func runEvaluator(circ *yao.Circuit, addr string, bob int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("connected to garbler at %s", addr)

	out, err := protocol.RunEvaluator(wire.NewConn(conn),
		bitsFromMask(circ.Bob, bob))
	if err != nil {
		return err
	}
	log.Printf("output: %v", out)
	return nil
}
