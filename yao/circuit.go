//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"fmt"

	"github.com/twoparty/yaogc/yaoerr"
)

// Circuit is a boolean circuit over labelled wires: Alice's input
// wires, Bob's input wires, the output wires, and an ordered list of
// gates in a valid topological order.
type Circuit struct {
	ID    string
	Alice []int
	Bob   []int
	Out   []int
	Gates []Gate
}

// N returns the total number of circuit inputs (Alice's plus Bob's).
func (c *Circuit) N() int {
	return len(c.Alice) + len(c.Bob)
}

// Wires returns every wire ID that carries a label during evaluation:
// the declared inputs plus every gate's output.
func (c *Circuit) Wires() []int {
	wires := make([]int, 0, len(c.Alice)+len(c.Bob)+len(c.Gates))
	wires = append(wires, c.Alice...)
	wires = append(wires, c.Bob...)
	for _, g := range c.Gates {
		wires = append(wires, g.ID)
	}
	return wires
}

// Validate checks the structural invariants of the data model: every
// gate has a known type and correct input arity, every input wire it
// references is either a declared circuit input or an earlier gate's
// output (so the gate list is a valid topological order and contains
// no cycles), every non-input wire is the output of exactly one gate,
// and every declared output wire exists.
func (c *Circuit) Validate() error {
	if len(c.Gates) == 0 {
		return fmt.Errorf("%w: circuit %q has no gates",
			yaoerr.MalformedCircuit, c.ID)
	}

	defined := make(map[int]bool)
	for _, w := range c.Alice {
		if defined[w] {
			return fmt.Errorf("%w: wire %d declared more than once",
				yaoerr.MalformedCircuit, w)
		}
		defined[w] = true
	}
	for _, w := range c.Bob {
		if defined[w] {
			return fmt.Errorf("%w: wire %d declared more than once",
				yaoerr.MalformedCircuit, w)
		}
		defined[w] = true
	}

	seenGate := make(map[int]bool)
	for _, g := range c.Gates {
		if !g.Type.Valid() {
			return fmt.Errorf("%w: gate %d has unknown type %q",
				yaoerr.MalformedCircuit, g.ID, g.Type)
		}
		if len(g.In) != g.Type.Arity() {
			return fmt.Errorf("%w: gate %d (%s) has %d inputs, want %d",
				yaoerr.MalformedCircuit, g.ID, g.Type, len(g.In),
				g.Type.Arity())
		}
		if defined[g.ID] || seenGate[g.ID] {
			return fmt.Errorf("%w: wire %d is the output of more than one gate",
				yaoerr.MalformedCircuit, g.ID)
		}
		for _, in := range g.In {
			if !defined[in] {
				return fmt.Errorf(
					"%w: gate %d references wire %d before it is defined",
					yaoerr.MalformedCircuit, g.ID, in)
			}
		}
		seenGate[g.ID] = true
		defined[g.ID] = true
	}

	for _, w := range c.Out {
		if !defined[w] {
			return fmt.Errorf("%w: output wire %d is never defined",
				yaoerr.MalformedCircuit, w)
		}
	}

	return nil
}

// EvalPlain runs the circuit's cleartext semantics directly, without
// any garbling. It is used as the reference for local-test truth
// tables and property-based tests; it is never used in the network
// protocol.
func (c *Circuit) EvalPlain(in map[int]int) (map[int]int, error) {
	wires := make(map[int]int, len(in)+len(c.Gates))
	for k, v := range in {
		wires[k] = v
	}
	for _, g := range c.Gates {
		a, ok := wires[g.In[0]]
		if !ok {
			return nil, fmt.Errorf("%w: wire %d has no value",
				yaoerr.MalformedCircuit, g.In[0])
		}
		var b int
		if g.Type.Arity() == 2 {
			b, ok = wires[g.In[1]]
			if !ok {
				return nil, fmt.Errorf("%w: wire %d has no value",
					yaoerr.MalformedCircuit, g.In[1])
			}
		}
		out, err := g.Type.Apply(a, b)
		if err != nil {
			return nil, err
		}
		wires[g.ID] = out
	}

	result := make(map[int]int, len(c.Out))
	for _, w := range c.Out {
		result[w] = wires[w]
	}
	return result, nil
}
