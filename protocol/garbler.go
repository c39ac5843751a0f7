//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"fmt"

	"github.com/twoparty/yaogc/ot"
	"github.com/twoparty/yaogc/wire"
	"github.com/twoparty/yaogc/yao"
	"github.com/twoparty/yaogc/yaoerr"
)

// RunGarbler drives the garbler's side of one circuit session over
// conn, for the cleartext input assignment restricted to the
// circuit's Alice wires (§4.F step 1-2). It returns the cleartext
// output mapping the evaluator reports back.
func RunGarbler(conn *wire.Conn, state *GarblerState, aliceInputs map[int]int) (
	map[int]int, error) {

	circ := state.Circuit
	gc := state.GC

	if err := conn.SendInit(circ, gc.Tables, gc.PBitsOut); err != nil {
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		return nil, err
	}
	ok, err := conn.ReceiveAck()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: evaluator rejected circuit %q",
			yaoerr.ProtocolViolation, circ.ID)
	}

	inputs := make(map[int]yao.Signal, len(circ.Alice))
	for _, w := range circ.Alice {
		bit, ok := aliceInputs[w]
		if !ok {
			return nil, fmt.Errorf("%w: no input bit for Alice wire %d",
				yaoerr.ProtocolViolation, w)
		}
		inputs[w] = gc.Wires[w].Signal(bit)
	}
	if err := conn.SendAInputs(inputs); err != nil {
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		return nil, err
	}

	for i := 0; i < len(circ.Bob); i++ {
		if err := transferOneWire(conn, state); err != nil {
			return nil, err
		}
	}

	out, err := conn.ReceiveOutputBits()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// transferOneWire runs one Bob-wire OT transfer, garbler side: the
// evaluator names the wire, and the garbler offers its two (label,
// signal-bit) payloads as the OT messages, per §4.E.
func transferOneWire(conn *wire.Conn, state *GarblerState) error {
	wireID, err := conn.ReceiveOTWireID()
	if err != nil {
		return err
	}
	wm, ok := state.GC.Wires[wireID]
	if !ok {
		return fmt.Errorf("%w: evaluator requested unknown wire %d",
			yaoerr.ProtocolViolation, wireID)
	}
	zero, one := wm.OTPair()
	m0 := yao.MarshalSignal(zero)
	m1 := yao.MarshalSignal(one)

	if state.DisableOT {
		if err := conn.SendOTDisabled(m0, m1); err != nil {
			return err
		}
		return conn.Flush()
	}

	g := otGroup()
	if err := conn.SendOTGroup(g); err != nil {
		return err
	}

	sender, err := ot.NewGarbler(g, m0, m1)
	if err != nil {
		return err
	}
	c, err := sender.Challenge()
	if err != nil {
		return err
	}
	if err := conn.SendOTChallenge(g, c); err != nil {
		return err
	}
	if err := conn.Flush(); err != nil {
		return err
	}

	h0, err := conn.ReceiveOTReceiverHalf(g)
	if err != nil {
		return err
	}
	c1, e0, e1, err := sender.Respond(h0)
	if err != nil {
		return err
	}
	if err := conn.SendOTSenderResponse(g, c1, e0, e1); err != nil {
		return err
	}
	return conn.Flush()
}
