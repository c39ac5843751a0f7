//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package protocol sequences the garbler<->evaluator exchange for one
// circuit over a wire.Conn (component F). It replaces the original's
// YaoGarbler/Alice/Bob inheritance hierarchy with a single GarblerState
// value driven by the network driver here. The in-process localtest
// package does not use GarblerState; it calls yao.Garble directly.
package protocol

import (
	"github.com/twoparty/yaogc/group"
	"github.com/twoparty/yaogc/yao"
)

// GarblerState holds one circuit's freshly garbled material for a
// single session. It is generated once per session with fresh
// randomness and must never be reused across sessions (§5 lifecycle).
type GarblerState struct {
	Circuit *yao.Circuit
	GC      *yao.GarbledCircuit

	// DisableOT, when set, skips the DH oblivious transfer and reveals
	// both of a wire's labels to the evaluator directly. Insecure;
	// local-debug only, mirroring the original's enabled=False OT flag.
	DisableOT bool
}

// NewGarblerState garbles circ with fresh randomness, ready for one
// protocol session (network or local).
func NewGarblerState(circ *yao.Circuit, disableOT bool) (*GarblerState, error) {
	gc, err := yao.Garble(circ, yao.Rand)
	if err != nil {
		return nil, err
	}
	return &GarblerState{Circuit: circ, GC: gc, DisableOT: disableOT}, nil
}

// Wipe destroys the session's garbling material in place: labels,
// p-bits, and tables are zeroed so they cannot be reused after
// teardown (§5 cancellation requirement). The GarblerState must not be
// used again afterwards.
func (s *GarblerState) Wipe() {
	for _, w := range s.GC.Wires {
		w.K0 = yao.Label{}
		w.K1 = yao.Label{}
		w.P = 0
	}
	for id, rows := range s.GC.Tables {
		for i := range rows {
			for j := range rows[i] {
				rows[i][j] = 0
			}
		}
		delete(s.GC.Tables, id)
	}
	s.GC = nil
}

// fixedOTGroup holds the group parameters returned by otGroup. Group
// methods never mutate it, so it is safe to share.
var fixedOTGroup = group.New14()

// otGroup is the fixed group used for every OT transfer in a session.
// Computing it once avoids re-deriving the 2048-bit prime per wire.
func otGroup() *group.Group {
	return fixedOTGroup
}
