//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package localtest is the in-process garble+evaluate driver
// (component G): it calls the garbled-table builder and evaluator
// directly, with labels and p-bits resident in the same address
// space, skipping both the network and oblivious transfer. It mirrors
// the original's LocalTest class's two print modes: a garbled-table
// debug dump, and a truth-table enumeration checked against the
// circuit's plain semantic evaluation.
package localtest

import (
	"fmt"
	"io"
	"strconv"

	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"

	"github.com/twoparty/yaogc/yao"
	"github.com/twoparty/yaogc/yaoerr"
)

// inputWires returns the circuit's input wires in the fixed order used
// to enumerate assignments: Alice's wires first, then Bob's.
func inputWires(c *yao.Circuit) []int {
	wires := make([]int, 0, c.N())
	wires = append(wires, c.Alice...)
	wires = append(wires, c.Bob...)
	return wires
}

// evalOnce garbles circ once and evaluates it in-process for the given
// cleartext assignment, bypassing OT entirely since garbler and
// evaluator share an address space here.
func evalOnce(c *yao.Circuit, assignment map[int]int) (map[int]int, error) {
	gc, err := yao.Garble(c, yao.Rand)
	if err != nil {
		return nil, err
	}
	in := make(map[int]yao.Signal, c.N())
	for _, w := range inputWires(c) {
		bit, ok := assignment[w]
		if !ok {
			return nil, fmt.Errorf("%w: no input bit for wire %d",
				yaoerr.ProtocolViolation, w)
		}
		in[w] = gc.Wires[w].Signal(bit)
	}
	out, err := yao.Evaluate(c, gc.Tables, in)
	if err != nil {
		return nil, err
	}
	return yao.OutputBits(out, gc.PBitsOut)
}

// PrintTables garbles circ once and writes every gate's garbled table
// to w, in hex, tagging each gate with its wire id rendered as a
// superscript for readability, mirroring bmr's peer-id annotations.
func PrintTables(c *yao.Circuit, w io.Writer) error {
	gc, err := yao.Garble(c, yao.Rand)
	if err != nil {
		return err
	}
	for _, g := range c.Gates {
		fmt.Fprintf(w, "gate %d%s (%s, in=%v):\n",
			g.ID, superscript.Itoa(g.ID), g.Type, g.In)
		for i, row := range gc.Tables[g.ID] {
			fmt.Fprintf(w, "  row %d: %x\n", i, row)
		}
	}
	return nil
}

// PrintTruthTable enumerates all 2^N input assignments of circ,
// garbling and evaluating fresh for each one, and prints the resulting
// semantic truth table to w. Every row's garbled-evaluation result is
// cross-checked against the circuit's plain semantic evaluation
// (yao.Circuit.EvalPlain); a mismatch is a LogicMismatch, per §7.
func PrintTruthTable(c *yao.Circuit, w io.Writer) error {
	inputs := inputWires(c)
	n := len(inputs)

	tab := tabulate.New(tabulate.Github)
	for _, in := range c.Alice {
		tab.Header(fmt.Sprintf("a%d", in))
	}
	for _, in := range c.Bob {
		tab.Header(fmt.Sprintf("b%d", in))
	}
	for _, out := range c.Out {
		tab.Header(fmt.Sprintf("out%d", out)).SetAlign(tabulate.MR)
	}

	for assignment := 0; assignment < (1 << n); assignment++ {
		bits := make(map[int]int, n)
		for i, wireID := range inputs {
			bits[wireID] = (assignment >> i) & 1
		}

		got, err := evalOnce(c, bits)
		if err != nil {
			return err
		}
		ref, err := c.EvalPlain(bits)
		if err != nil {
			return err
		}
		for _, out := range c.Out {
			if got[out] != ref[out] {
				return fmt.Errorf(
					"%w: circuit %q wire %d: garbled=%d plain=%d for input %v",
					yaoerr.LogicMismatch, c.ID, out, got[out], ref[out], bits)
			}
		}

		row := tab.Row()
		for _, wireID := range inputs {
			row.Column(strconv.Itoa(bits[wireID]))
		}
		for _, out := range c.Out {
			row.Column(strconv.Itoa(got[out]))
		}
	}

	tab.Print(w)
	return nil
}
