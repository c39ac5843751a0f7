//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/twoparty/yaogc/yaoerr"
)

// rowKey derives the garbled-table encryption key for one row of gate
// gateID, keyed under the row's input labels: SHAKE256("gc-key" ∥
// gate_id_LE ∥ L_u ∥ L_v, |label|+1). L_v is omitted for unary gates,
// domain-separating NOT rows from binary-gate rows of the same label.
func rowKey(gateID int, lu Label, lv *Label) []byte {
	h := sha3.NewShake256()
	h.Write([]byte("gc-key"))
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], uint32(gateID))
	h.Write(idBuf[:])
	h.Write(lu.Bytes())
	if lv != nil {
		h.Write(lv.Bytes())
	}
	out := make([]byte, LabelSize+1)
	if _, err := io.ReadFull(h, out); err != nil {
		// SHAKE256 is an XOF; it never runs dry. Surfaced anyway so a
		// broken hash implementation fails loudly instead of silently.
		panic(fmt.Errorf("%w: %v", yaoerr.CryptoFailure, err))
	}
	return out
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// rowIndex maps the evaluator's tagged-input signal bits to a garbled
// table row of a binary gate: (i<<1 | j). Unary gates (NOT) do not use
// it; their two-row tables are indexed by i alone.
func rowIndex(i, j PBit) int {
	return int(i)<<1 | int(j)
}

// GarbledCircuit holds the ephemeral per-session garbling material for
// one circuit: fresh wire labels and p-bits, the garbled tables, and
// the output wires' permutation bits. It must be generated anew for
// each protocol session and never reused.
type GarbledCircuit struct {
	Circuit  *Circuit
	Wires    map[int]*WireMaterial
	Tables   map[int][][]byte
	PBitsOut map[int]PBit
}

// Garble builds fresh labels and permutation bits for every wire in c
// and produces the garbled table for every gate. rnd is the source of
// randomness; pass yao.Rand in production use.
func Garble(c *Circuit, rnd io.Reader) (*GarbledCircuit, error) {
	wires := make(map[int]*WireMaterial, len(c.Alice)+len(c.Bob)+len(c.Gates))
	for _, w := range c.Wires() {
		material, err := NewWireMaterial(rnd)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", yaoerr.CryptoFailure, err)
		}
		wires[w] = material
	}

	tables := make(map[int][][]byte, len(c.Gates))
	for _, g := range c.Gates {
		table, err := garbleGate(g, wires)
		if err != nil {
			return nil, err
		}
		tables[g.ID] = table
	}

	pbitsOut := make(map[int]PBit, len(c.Out))
	for _, w := range c.Out {
		pbitsOut[w] = wires[w].PBit()
	}

	return &GarbledCircuit{
		Circuit:  c,
		Wires:    wires,
		Tables:   tables,
		PBitsOut: pbitsOut,
	}, nil
}

// garbleGate produces the garbled table for a single gate, following
// §4.C: for every semantic input combination, compute the tagged row
// index from the permutation bits, derive the row key from the
// evaluator-visible labels, and encrypt the output label and its
// signal bit under that key.
func garbleGate(g Gate, wires map[int]*WireMaterial) ([][]byte, error) {
	u := wires[g.In[0]]
	out := wires[g.ID]

	if g.Type == NOT {
		table := make([][]byte, 2)
		for a := 0; a <= 1; a++ {
			c, err := g.Type.Apply(a, 0)
			if err != nil {
				return nil, err
			}
			i := u.PBit().Xor(PBit(a))
			var uLabel Label
			if a == 0 {
				uLabel, _ = u.Keys()
			} else {
				_, uLabel = u.Keys()
			}
			key := rowKey(g.ID, uLabel, nil)
			payload := MarshalSignal(out.Signal(c))
			table[int(i)] = xorBytes(key, payload)
		}
		return table, nil
	}

	v := wires[g.In[1]]
	table := make([][]byte, 4)
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			c, err := g.Type.Apply(a, b)
			if err != nil {
				return nil, err
			}
			i := u.PBit().Xor(PBit(a))
			j := v.PBit().Xor(PBit(b))

			var uLabel, vLabel Label
			if a == 0 {
				uLabel, _ = u.Keys()
			} else {
				_, uLabel = u.Keys()
			}
			if b == 0 {
				vLabel, _ = v.Keys()
			} else {
				_, vLabel = v.Keys()
			}

			key := rowKey(g.ID, uLabel, &vLabel)
			payload := MarshalSignal(out.Signal(c))
			table[rowIndex(i, j)] = xorBytes(key, payload)
		}
	}
	return table, nil
}
