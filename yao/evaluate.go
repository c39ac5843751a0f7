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

// Evaluate runs the evaluator's side of the protocol (component D):
// given one (label, signal-bit) pair per circuit input wire and the
// garbled tables, it decrypts exactly one row per gate, in the
// circuit's stored topological order, and returns the (label,
// signal-bit) pair that results on every declared output wire.
//
// It does not recover semantic values; callers combine the returned
// signal bits with the garbler's advertised output permutation bits
// (GarbledCircuit.PBitsOut) to get cleartext output bits.
func Evaluate(c *Circuit, tables map[int][][]byte, in map[int]Signal) (
	map[int]Signal, error) {

	wires := make(map[int]Signal, len(in)+len(c.Gates))
	for k, v := range in {
		wires[k] = v
	}

	for _, g := range c.Gates {
		a, ok := wires[g.In[0]]
		if !ok {
			return nil, fmt.Errorf("%w: wire %d has no label at gate %d",
				yaoerr.ProtocolViolation, g.In[0], g.ID)
		}

		table, ok := tables[g.ID]
		if !ok {
			return nil, fmt.Errorf("%w: missing garbled table for gate %d",
				yaoerr.ProtocolViolation, g.ID)
		}

		var index int
		var key []byte
		if g.Type == NOT {
			index = int(a.Bit)
			key = rowKey(g.ID, a.Label, nil)
		} else {
			b, ok := wires[g.In[1]]
			if !ok {
				return nil, fmt.Errorf(
					"%w: wire %d has no label at gate %d",
					yaoerr.ProtocolViolation, g.In[1], g.ID)
			}
			index = rowIndex(a.Bit, b.Bit)
			key = rowKey(g.ID, a.Label, &b.Label)
		}

		if index < 0 || index >= len(table) || table[index] == nil {
			return nil, fmt.Errorf(
				"%w: no garbled row %d for gate %d (corrupted circuit)",
				yaoerr.ProtocolViolation, index, g.ID)
		}

		payload := xorBytes(table[index], key)
		out, err := UnmarshalSignal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", yaoerr.ProtocolViolation, err)
		}
		wires[g.ID] = out
	}

	result := make(map[int]Signal, len(c.Out))
	for _, w := range c.Out {
		s, ok := wires[w]
		if !ok {
			return nil, fmt.Errorf("%w: output wire %d was never computed",
				yaoerr.ProtocolViolation, w)
		}
		result[w] = s
	}
	return result, nil
}

// OutputBits converts the evaluator's raw output signals into
// cleartext bits by xoring each signal bit with the garbler's
// advertised output permutation bit.
func OutputBits(out map[int]Signal, pbitsOut map[int]PBit) (map[int]int,
	error) {

	result := make(map[int]int, len(out))
	for w, s := range out {
		p, ok := pbitsOut[w]
		if !ok {
			return nil, fmt.Errorf("%w: no output p-bit for wire %d",
				yaoerr.ProtocolViolation, w)
		}
		result[w] = int(s.Bit.Xor(p))
	}
	return result, nil
}
