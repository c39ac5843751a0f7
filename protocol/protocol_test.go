//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"net"
	"testing"

	"github.com/twoparty/yaogc/wire"
	"github.com/twoparty/yaogc/yao"
)

func andCircuit() *yao.Circuit {
	return &yao.Circuit{
		ID:    "and",
		Alice: []int{1},
		Bob:   []int{2},
		Out:   []int{3},
		Gates: []yao.Gate{{ID: 3, Type: yao.AND, In: []int{1, 2}}},
	}
}

// runSession wires a garbler and an evaluator together over an
// in-process net.Pipe and returns the evaluator's reported output.
func runSession(t *testing.T, circ *yao.Circuit, alice, bob map[int]int,
	disableOT bool) map[int]int {

	t.Helper()

	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	state, err := NewGarblerState(circ, disableOT)
	if err != nil {
		t.Fatalf("NewGarblerState: %v", err)
	}

	type result struct {
		bits map[int]int
		err  error
	}
	garblerDone := make(chan result, 1)
	go func() {
		conn := wire.NewConn(left)
		bits, err := RunGarbler(conn, state, alice)
		garblerDone <- result{bits, err}
	}()

	evalConn := wire.NewConn(right)
	evalBits, err := RunEvaluator(evalConn, bob)
	if err != nil {
		t.Fatalf("RunEvaluator: %v", err)
	}

	g := <-garblerDone
	if g.err != nil {
		t.Fatalf("RunGarbler: %v", g.err)
	}
	for w, bit := range g.bits {
		if evalBits[w] != bit {
			t.Fatalf("garbler/evaluator output mismatch on wire %d: %d != %d",
				w, bit, evalBits[w])
		}
	}
	return evalBits
}

// TestSessionAND covers property P1 over the wire protocol (not just
// the in-process yao package) for every input of the AND seed circuit,
// both with and without oblivious transfer enabled.
func TestSessionAND(t *testing.T) {
	c := andCircuit()
	want := map[[2]int]int{
		{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
	}
	for ab, exp := range want {
		for _, disableOT := range []bool{false, true} {
			out := runSession(t, c,
				map[int]int{1: ab[0]}, map[int]int{2: ab[1]}, disableOT)
			if out[3] != exp {
				t.Errorf("disableOT=%v AND(%d,%d) = %d, want %d",
					disableOT, ab[0], ab[1], out[3], exp)
			}
		}
	}
}

// TestSessionFullAdder runs a three-gate-deep, two-output circuit with
// two Alice wires and one Bob wire over the wire protocol.
func TestSessionFullAdder(t *testing.T) {
	c := &yao.Circuit{
		ID:    "full-adder",
		Alice: []int{1, 2},
		Bob:   []int{3},
		Out:   []int{10, 13},
		Gates: []yao.Gate{
			{ID: 4, Type: yao.XOR, In: []int{1, 2}},
			{ID: 10, Type: yao.XOR, In: []int{4, 3}},
			{ID: 11, Type: yao.AND, In: []int{1, 2}},
			{ID: 12, Type: yao.AND, In: []int{4, 3}},
			{ID: 13, Type: yao.OR, In: []int{11, 12}},
		},
	}
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			for cin := 0; cin <= 1; cin++ {
				out := runSession(t, c,
					map[int]int{1: a, 2: b}, map[int]int{3: cin}, false)
				sum := a ^ b ^ cin
				cout := (a & b) | (b & cin) | (a & cin)
				if out[10] != sum || out[13] != cout {
					t.Errorf("fullAdder(%d,%d,%d) = (sum=%d,cout=%d), want (%d,%d)",
						a, b, cin, out[10], out[13], sum, cout)
				}
			}
		}
	}
}

// TestGarblerStateWipe checks that Wipe zeroes label material so it
// cannot be reused after session teardown (§5).
func TestGarblerStateWipe(t *testing.T) {
	state, err := NewGarblerState(andCircuit(), false)
	if err != nil {
		t.Fatal(err)
	}
	wm := state.GC.Wires[1]
	state.Wipe()
	if state.GC != nil {
		t.Fatal("expected GC to be nil after Wipe")
	}
	if !wm.K0.Equal(yao.Label{}) || !wm.K1.Equal(yao.Label{}) {
		t.Fatal("expected wire labels to be zeroed after Wipe")
	}
}
