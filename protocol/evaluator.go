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

// RunEvaluator drives the evaluator's side of one circuit session over
// conn, for the cleartext input assignment restricted to the
// circuit's Bob wires (§4.F step 2, symmetric half). It returns the
// cleartext output mapping, which it also reports back to the
// garbler.
func RunEvaluator(conn *wire.Conn, bobInputs map[int]int) (map[int]int, error) {
	circ, tables, pbitsOut, err := conn.ReceiveInit()
	if err != nil {
		return nil, err
	}
	if err := conn.SendAck(true); err != nil {
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		return nil, err
	}

	inputs, err := conn.ReceiveAInputs()
	if err != nil {
		return nil, err
	}

	for _, w := range circ.Bob {
		bit, ok := bobInputs[w]
		if !ok {
			return nil, fmt.Errorf("%w: no input bit for Bob wire %d",
				yaoerr.ProtocolViolation, w)
		}
		sig, err := transferOneInput(conn, w, bit)
		if err != nil {
			return nil, err
		}
		inputs[w] = sig
	}

	out, err := yao.Evaluate(circ, tables, inputs)
	if err != nil {
		return nil, err
	}
	bits, err := yao.OutputBits(out, pbitsOut)
	if err != nil {
		return nil, err
	}

	if err := conn.SendOutputBits(bits); err != nil {
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		return nil, err
	}
	return bits, nil
}

// transferOneInput runs one Bob-wire OT transfer, evaluator side:
// names the wire to establish order, then either takes the payload
// selected by the cleartext input bit from the garbler's direct reveal
// of both (debug mode) or runs the DH transfer with selection bit equal
// to the cleartext input bit.
func transferOneInput(conn *wire.Conn, wireID, bit int) (yao.Signal, error) {
	if err := conn.SendOTWireID(wireID); err != nil {
		return yao.Signal{}, err
	}
	if err := conn.Flush(); err != nil {
		return yao.Signal{}, err
	}

	g, disabled, m0, m1, err := conn.ReceiveOTPhase()
	if err != nil {
		return yao.Signal{}, err
	}
	if disabled {
		m := m0
		if bit == 1 {
			m = m1
		}
		return yao.UnmarshalSignal(m)
	}

	c, err := conn.ReceiveOTChallenge(g)
	if err != nil {
		return yao.Signal{}, err
	}
	receiver, err := ot.NewEvaluator(g, bit)
	if err != nil {
		return yao.Signal{}, err
	}
	hb, err := receiver.Respond(c)
	if err != nil {
		return yao.Signal{}, err
	}
	if err := conn.SendOTReceiverHalf(g, hb); err != nil {
		return yao.Signal{}, err
	}
	if err := conn.Flush(); err != nil {
		return yao.Signal{}, err
	}

	c1, e0, e1, err := conn.ReceiveOTSenderResponse(g)
	if err != nil {
		return yao.Signal{}, err
	}
	m, err := receiver.Decrypt(c1, e0, e1)
	if err != nil {
		return yao.Signal{}, err
	}
	return yao.UnmarshalSignal(m)
}
