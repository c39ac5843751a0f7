//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"crypto/rand"
	"testing"
)

// garbleAndRun garbles circuit c once, evaluates it for the given
// cleartext assignment, and returns the cleartext output bits.
func garbleAndRun(t *testing.T, c *Circuit, assignment map[int]int) map[int]int {
	t.Helper()

	gc, err := Garble(c, rand.Reader)
	if err != nil {
		t.Fatalf("Garble: %v", err)
	}

	in := make(map[int]Signal, len(assignment))
	for w, bit := range assignment {
		in[w] = gc.Wires[w].Signal(bit)
	}

	out, err := Evaluate(c, gc.Tables, in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	bits, err := OutputBits(out, gc.PBitsOut)
	if err != nil {
		t.Fatalf("OutputBits: %v", err)
	}
	return bits
}

func andCircuit() *Circuit {
	return &Circuit{
		ID:    "and",
		Alice: []int{1},
		Bob:   []int{2},
		Out:   []int{3},
		Gates: []Gate{{ID: 3, Type: AND, In: []int{1, 2}}},
	}
}

func xorCircuit() *Circuit {
	return &Circuit{
		ID:    "xor",
		Alice: []int{1},
		Bob:   []int{2},
		Out:   []int{3},
		Gates: []Gate{{ID: 3, Type: XOR, In: []int{1, 2}}},
	}
}

func notCircuit() *Circuit {
	return &Circuit{
		ID:    "not",
		Alice: []int{1},
		Out:   []int{2},
		Gates: []Gate{{ID: 2, Type: NOT, In: []int{1}}},
	}
}

// TestSeedAND covers seed scenario 1.
func TestSeedAND(t *testing.T) {
	c := andCircuit()
	want := map[[2]int]int{
		{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
	}
	for ab, exp := range want {
		got := garbleAndRun(t, c, map[int]int{1: ab[0], 2: ab[1]})
		if got[3] != exp {
			t.Errorf("AND(%d,%d) = %d, want %d", ab[0], ab[1], got[3], exp)
		}
	}
}

// TestSeedXOR covers seed scenario 2.
func TestSeedXOR(t *testing.T) {
	c := xorCircuit()
	want := map[[2]int]int{
		{0, 0}: 0, {0, 1}: 1, {1, 0}: 1, {1, 1}: 0,
	}
	for ab, exp := range want {
		got := garbleAndRun(t, c, map[int]int{1: ab[0], 2: ab[1]})
		if got[3] != exp {
			t.Errorf("XOR(%d,%d) = %d, want %d", ab[0], ab[1], got[3], exp)
		}
	}
}

// TestSeedNOT covers seed scenario 3.
func TestSeedNOT(t *testing.T) {
	c := notCircuit()
	for a, exp := range map[int]int{0: 1, 1: 0} {
		got := garbleAndRun(t, c, map[int]int{1: a})
		if got[2] != exp {
			t.Errorf("NOT(%d) = %d, want %d", a, got[2], exp)
		}
	}
}

// TestSeedEquality2Bit covers seed scenario 4: (a0 XNOR b0) AND (a1
// XNOR b1), equal over all 16 inputs iff a == b.
func TestSeedEquality2Bit(t *testing.T) {
	c := &Circuit{
		ID:    "eq2",
		Alice: []int{1, 2},
		Bob:   []int{3, 4},
		Out:   []int{7},
		Gates: []Gate{
			{ID: 5, Type: XNOR, In: []int{1, 3}},
			{ID: 6, Type: XNOR, In: []int{2, 4}},
			{ID: 7, Type: AND, In: []int{5, 6}},
		},
	}
	for a0 := 0; a0 <= 1; a0++ {
		for a1 := 0; a1 <= 1; a1++ {
			for b0 := 0; b0 <= 1; b0++ {
				for b1 := 0; b1 <= 1; b1++ {
					assignment := map[int]int{1: a0, 2: a1, 3: b0, 4: b1}
					got := garbleAndRun(t, c, assignment)
					want := 0
					if a0 == b0 && a1 == b1 {
						want = 1
					}
					if got[7] != want {
						t.Errorf("eq2(%d%d,%d%d) = %d, want %d",
							a0, a1, b0, b1, got[7], want)
					}
				}
			}
		}
	}
}

// fullAdder builds a one-bit full adder: sum = a xor b xor cin,
// cout = majority(a, b, cin). Covers seed scenario 5.
func fullAdder() *Circuit {
	return &Circuit{
		ID:    "full-adder",
		Alice: []int{1, 2},
		Bob:   []int{3},
		Out:   []int{10, 13},
		Gates: []Gate{
			{ID: 4, Type: XOR, In: []int{1, 2}},   // a xor b
			{ID: 10, Type: XOR, In: []int{4, 3}},  // sum
			{ID: 11, Type: AND, In: []int{1, 2}},  // a and b
			{ID: 12, Type: AND, In: []int{4, 3}},  // (a xor b) and cin
			{ID: 13, Type: OR, In: []int{11, 12}}, // cout
		},
	}
}

func TestSeedFullAdder(t *testing.T) {
	c := fullAdder()
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			for cin := 0; cin <= 1; cin++ {
				got := garbleAndRun(t, c, map[int]int{1: a, 2: b, 3: cin})
				sum := a ^ b ^ cin
				cout := (a & b) | (b & cin) | (a & cin)
				if got[10] != sum || got[13] != cout {
					t.Errorf("fullAdder(%d,%d,%d) = (sum=%d,cout=%d), want (%d,%d)",
						a, b, cin, got[10], got[13], sum, cout)
				}
			}
		}
	}
}

// TestGarbledTableOneUse covers property P4: two independent garblings
// of the same circuit must not share label material.
func TestGarbledTableOneUse(t *testing.T) {
	c := andCircuit()
	g1, err := Garble(c, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := Garble(c, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	for w := range g1.Wires {
		k0a, k1a := g1.Wires[w].Keys()
		k0b, k1b := g2.Wires[w].Keys()
		if k0a.Equal(k0b) || k1a.Equal(k1b) {
			t.Fatalf("wire %d: labels collided across independent garblings", w)
		}
	}
}

// TestRoundTripAllGateTypes covers property P5 for every supported
// gate type.
func TestRoundTripAllGateTypes(t *testing.T) {
	types := []GateType{AND, OR, XOR, NAND, NOR, XNOR}
	for _, op := range types {
		c := &Circuit{
			ID:    string(op),
			Alice: []int{1},
			Bob:   []int{2},
			Out:   []int{3},
			Gates: []Gate{{ID: 3, Type: op, In: []int{1, 2}}},
		}
		for a := 0; a <= 1; a++ {
			for b := 0; b <= 1; b++ {
				got := garbleAndRun(t, c, map[int]int{1: a, 2: b})
				want, _ := op.Apply(a, b)
				if got[3] != want {
					t.Errorf("%s(%d,%d) = %d, want %d", op, a, b, got[3], want)
				}
			}
		}
	}

	nc := notCircuit()
	for a := 0; a <= 1; a++ {
		got := garbleAndRun(t, nc, map[int]int{1: a})
		want, _ := NOT.Apply(a, 0)
		if got[2] != want {
			t.Errorf("%s(%d) = %d, want %d", NOT, a, got[2], want)
		}
	}
}

func TestValidateRejectsCycleLikeForwardRef(t *testing.T) {
	c := &Circuit{
		ID:    "bad",
		Alice: []int{1},
		Out:   []int{2},
		Gates: []Gate{{ID: 2, Type: NOT, In: []int{5}}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected MalformedCircuit for dangling wire")
	}
}

func TestValidateRejectsUnknownGateType(t *testing.T) {
	c := &Circuit{
		ID:    "bad",
		Alice: []int{1},
		Bob:   []int{2},
		Out:   []int{3},
		Gates: []Gate{{ID: 3, Type: "BOGUS", In: []int{1, 2}}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected MalformedCircuit for unknown gate type")
	}
}
