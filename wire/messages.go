//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/twoparty/yaogc/group"
	"github.com/twoparty/yaogc/yao"
	"github.com/twoparty/yaogc/yaoerr"
)

// --- Init: circuit, garbled tables, output p-bits -------------------

// SendInit sends the garbler's initial message for one circuit: its
// description, garbled tables, and output permutation bits. The
// evaluator acks with SendAck/ReceiveAck.
func (c *Conn) SendInit(circ *yao.Circuit, tables map[int][][]byte,
	pbitsOut map[int]yao.PBit) error {

	if err := c.SendTag(TagInit); err != nil {
		return err
	}
	if err := c.sendCircuit(circ); err != nil {
		return err
	}
	if err := c.sendTables(circ, tables); err != nil {
		return err
	}
	return c.sendPBits(pbitsOut)
}

// ReceiveInit reads the message sent by SendInit.
func (c *Conn) ReceiveInit() (*yao.Circuit, map[int][][]byte, map[int]yao.PBit,
	error) {

	if _, err := c.ReceiveTag(TagInit); err != nil {
		return nil, nil, nil, err
	}
	circ, err := c.receiveCircuit()
	if err != nil {
		return nil, nil, nil, err
	}
	tables, err := c.receiveTables(circ)
	if err != nil {
		return nil, nil, nil, err
	}
	pbits, err := c.receivePBits()
	if err != nil {
		return nil, nil, nil, err
	}
	return circ, tables, pbits, nil
}

func (c *Conn) sendCircuit(circ *yao.Circuit) error {
	if err := c.SendString(circ.ID); err != nil {
		return err
	}
	if err := c.sendIntSlice(circ.Alice); err != nil {
		return err
	}
	if err := c.sendIntSlice(circ.Bob); err != nil {
		return err
	}
	if err := c.sendIntSlice(circ.Out); err != nil {
		return err
	}
	if err := c.SendUint32(len(circ.Gates)); err != nil {
		return err
	}
	for _, g := range circ.Gates {
		if err := c.SendUint32(g.ID); err != nil {
			return err
		}
		if err := c.SendString(string(g.Type)); err != nil {
			return err
		}
		if err := c.sendIntSlice(g.In); err != nil {
			return err
		}
	}
	return nil
}

func (c *Conn) receiveCircuit() (*yao.Circuit, error) {
	id, err := c.ReceiveString()
	if err != nil {
		return nil, err
	}
	alice, err := c.receiveIntSlice()
	if err != nil {
		return nil, err
	}
	bob, err := c.receiveIntSlice()
	if err != nil {
		return nil, err
	}
	out, err := c.receiveIntSlice()
	if err != nil {
		return nil, err
	}
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	gates := make([]yao.Gate, n)
	for i := 0; i < n; i++ {
		id, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		typ, err := c.ReceiveString()
		if err != nil {
			return nil, err
		}
		in, err := c.receiveIntSlice()
		if err != nil {
			return nil, err
		}
		gates[i] = yao.Gate{ID: id, Type: yao.GateType(typ), In: in}
	}
	circ := &yao.Circuit{ID: id, Alice: alice, Bob: bob, Out: out, Gates: gates}
	if err := circ.Validate(); err != nil {
		return nil, err
	}
	return circ, nil
}

func (c *Conn) sendIntSlice(s []int) error {
	if err := c.SendUint32(len(s)); err != nil {
		return err
	}
	for _, v := range s {
		if err := c.SendUint32(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Conn) receiveIntSlice() ([]int, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	s := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		s[i] = v
	}
	return s, nil
}

func (c *Conn) sendTables(circ *yao.Circuit, tables map[int][][]byte) error {
	for _, g := range circ.Gates {
		rows := tables[g.ID]
		if err := c.SendUint32(len(rows)); err != nil {
			return err
		}
		for _, row := range rows {
			if err := c.SendBytes(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Conn) receiveTables(circ *yao.Circuit) (map[int][][]byte, error) {
	tables := make(map[int][][]byte, len(circ.Gates))
	for _, g := range circ.Gates {
		n, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		rows := make([][]byte, n)
		for i := 0; i < n; i++ {
			row, err := c.ReceiveBytes()
			if err != nil {
				return nil, err
			}
			rows[i] = row
		}
		tables[g.ID] = rows
	}
	return tables, nil
}

func (c *Conn) sendPBits(pbits map[int]yao.PBit) error {
	ids := make([]int, 0, len(pbits))
	for w := range pbits {
		ids = append(ids, w)
	}
	sort.Ints(ids)
	if err := c.SendUint32(len(ids)); err != nil {
		return err
	}
	for _, w := range ids {
		if err := c.SendUint32(w); err != nil {
			return err
		}
		if err := c.rw.WriteByte(byte(pbits[w])); err != nil {
			return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
		}
		c.Stats.Sent++
	}
	return nil
}

func (c *Conn) receivePBits() (map[int]yao.PBit, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	pbits := make(map[int]yao.PBit, n)
	for i := 0; i < n; i++ {
		w, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		b, err := c.rw.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
		}
		c.Stats.Recvd++
		pbits[w] = yao.PBit(b & 1)
	}
	return pbits, nil
}

// --- Ack -------------------------------------------------------------

// SendAck sends the evaluator's acknowledgement of an Init message.
func (c *Conn) SendAck(ok bool) error {
	if err := c.SendTag(TagAck); err != nil {
		return err
	}
	return c.SendBool(ok)
}

// ReceiveAck reads the acknowledgement sent by SendAck.
func (c *Conn) ReceiveAck() (bool, error) {
	if _, err := c.ReceiveTag(TagAck); err != nil {
		return false, err
	}
	return c.ReceiveBool()
}

// --- AInputs: Alice's per-assignment input labels --------------------

// SendAInputs sends the garbler's input labels for one assignment,
// wire by wire.
func (c *Conn) SendAInputs(inputs map[int]yao.Signal) error {
	if err := c.SendTag(TagAInputs); err != nil {
		return err
	}
	ids := make([]int, 0, len(inputs))
	for w := range inputs {
		ids = append(ids, w)
	}
	sort.Ints(ids)
	if err := c.SendUint32(len(ids)); err != nil {
		return err
	}
	for _, w := range ids {
		if err := c.SendUint32(w); err != nil {
			return err
		}
		if err := c.SendBytes(yao.MarshalSignal(inputs[w])); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveAInputs reads the message sent by SendAInputs.
func (c *Conn) ReceiveAInputs() (map[int]yao.Signal, error) {
	if _, err := c.ReceiveTag(TagAInputs); err != nil {
		return nil, err
	}
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	result := make(map[int]yao.Signal, n)
	for i := 0; i < n; i++ {
		w, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		data, err := c.ReceiveBytes()
		if err != nil {
			return nil, err
		}
		sig, err := yao.UnmarshalSignal(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", yaoerr.ProtocolViolation, err)
		}
		result[w] = sig
	}
	return result, nil
}

// --- OT wire-order request: evaluator -> garbler ----------------------

// SendOTWireID sends the wire ID for which the evaluator is about to
// run OT, establishing transfer order per §4.F.
func (c *Conn) SendOTWireID(wireID int) error {
	if err := c.SendTag(TagOTWireID); err != nil {
		return err
	}
	return c.SendUint32(wireID)
}

// ReceiveOTWireID reads the message sent by SendOTWireID.
func (c *Conn) ReceiveOTWireID() (int, error) {
	if _, err := c.ReceiveTag(TagOTWireID); err != nil {
		return 0, err
	}
	return c.ReceiveUint32()
}

// --- OT group parameters: garbler -> evaluator ------------------------

// SendOTGroup sends the fixed group (P, G, Order).
func (c *Conn) SendOTGroup(g *group.Group) error {
	if err := c.SendTag(TagOTGroup); err != nil {
		return err
	}
	if err := c.SendBytes(g.P.Bytes()); err != nil {
		return err
	}
	if err := c.SendBytes(g.G.Bytes()); err != nil {
		return err
	}
	return c.SendBytes(g.Order.Bytes())
}

// ReceiveOTGroup reads the message sent by SendOTGroup.
func (c *Conn) ReceiveOTGroup() (*group.Group, error) {
	if _, err := c.ReceiveTag(TagOTGroup); err != nil {
		return nil, err
	}
	return c.receiveOTGroupBody()
}

func (c *Conn) receiveOTGroupBody() (*group.Group, error) {
	pBytes, err := c.ReceiveBytes()
	if err != nil {
		return nil, err
	}
	gBytes, err := c.ReceiveBytes()
	if err != nil {
		return nil, err
	}
	orderBytes, err := c.ReceiveBytes()
	if err != nil {
		return nil, err
	}
	return &group.Group{
		P:     new(big.Int).SetBytes(pBytes),
		G:     new(big.Int).SetBytes(gBytes),
		Order: new(big.Int).SetBytes(orderBytes),
	}, nil
}

// ReceiveOTPhase reads the tag that opens one wire's OT exchange and
// dispatches to either the live group handshake or the disabled,
// direct-reveal debug path, returning whichever payload applies. If
// disabled is true, group is nil and (m0, m1) carry the two cleartext
// messages; otherwise group is the transfer's fixed parameters and
// (m0, m1) are nil.
func (c *Conn) ReceiveOTPhase() (g *group.Group, disabled bool, m0, m1 []byte,
	err error) {

	tag, err := c.ReceiveTag(TagOTGroup, TagOTDisabled)
	if err != nil {
		return nil, false, nil, nil, err
	}
	if tag == TagOTDisabled {
		m0, m1, err = c.ReceiveOTDisabled()
		if err != nil {
			return nil, false, nil, nil, err
		}
		return nil, true, m0, m1, nil
	}
	g, err = c.receiveOTGroupBody()
	if err != nil {
		return nil, false, nil, nil, err
	}
	return g, false, nil, nil, nil
}

// --- OT challenge: garbler -> evaluator --------------------------------

// SendOTChallenge sends the garbler's random group element c.
func (c *Conn) SendOTChallenge(g *group.Group, challenge *big.Int) error {
	if err := c.SendTag(TagOTChallenge); err != nil {
		return err
	}
	return c.SendBytes(g.Encode(challenge))
}

// ReceiveOTChallenge reads the message sent by SendOTChallenge.
func (c *Conn) ReceiveOTChallenge(g *group.Group) (*big.Int, error) {
	if _, err := c.ReceiveTag(TagOTChallenge); err != nil {
		return nil, err
	}
	data, err := c.ReceiveBytes()
	if err != nil {
		return nil, err
	}
	return g.Decode(data)
}

// --- OT disabled: garbler -> evaluator, debug mode only ----------------

// SendOTDisabled sends both wire messages in cleartext, bypassing OT
// entirely. Insecure; local-debug use only, per §4.E.
func (c *Conn) SendOTDisabled(m0, m1 []byte) error {
	if err := c.SendTag(TagOTDisabled); err != nil {
		return err
	}
	if err := c.SendBytes(m0); err != nil {
		return err
	}
	return c.SendBytes(m1)
}

// ReceiveOTDisabled reads the message sent by SendOTDisabled.
func (c *Conn) ReceiveOTDisabled() (m0, m1 []byte, err error) {
	m0, err = c.ReceiveBytes()
	if err != nil {
		return nil, nil, err
	}
	m1, err = c.ReceiveBytes()
	if err != nil {
		return nil, nil, err
	}
	return m0, m1, nil
}

// --- OT receiver half: evaluator -> garbler ----------------------------

// SendOTReceiverHalf sends the evaluator's h_b.
func (c *Conn) SendOTReceiverHalf(g *group.Group, hb *big.Int) error {
	if err := c.SendTag(TagOTReceiverHalf); err != nil {
		return err
	}
	return c.SendBytes(g.Encode(hb))
}

// ReceiveOTReceiverHalf reads the message sent by SendOTReceiverHalf.
func (c *Conn) ReceiveOTReceiverHalf(g *group.Group) (*big.Int, error) {
	if _, err := c.ReceiveTag(TagOTReceiverHalf); err != nil {
		return nil, err
	}
	data, err := c.ReceiveBytes()
	if err != nil {
		return nil, err
	}
	return g.Decode(data)
}

// --- OT sender response: garbler -> evaluator --------------------------

// SendOTSenderResponse sends the garbler's (c1, e0, e1).
func (c *Conn) SendOTSenderResponse(g *group.Group, c1 *big.Int, e0, e1 []byte) error {
	if err := c.SendTag(TagOTSenderResponse); err != nil {
		return err
	}
	if err := c.SendBytes(g.Encode(c1)); err != nil {
		return err
	}
	if err := c.SendBytes(e0); err != nil {
		return err
	}
	return c.SendBytes(e1)
}

// ReceiveOTSenderResponse reads the message sent by
// SendOTSenderResponse.
func (c *Conn) ReceiveOTSenderResponse(g *group.Group) (c1 *big.Int, e0, e1 []byte,
	err error) {

	if _, err = c.ReceiveTag(TagOTSenderResponse); err != nil {
		return nil, nil, nil, err
	}
	c1Bytes, err := c.ReceiveBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	c1, err = g.Decode(c1Bytes)
	if err != nil {
		return nil, nil, nil, err
	}
	e0, err = c.ReceiveBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	e1, err = c.ReceiveBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	return c1, e0, e1, nil
}

// --- Output bits: evaluator -> garbler ----------------------------------

// SendOutputBits sends the evaluator's cleartext output mapping.
func (c *Conn) SendOutputBits(bits map[int]int) error {
	if err := c.SendTag(TagOutputBits); err != nil {
		return err
	}
	ids := make([]int, 0, len(bits))
	for w := range bits {
		ids = append(ids, w)
	}
	sort.Ints(ids)
	if err := c.SendUint32(len(ids)); err != nil {
		return err
	}
	for _, w := range ids {
		if err := c.SendUint32(w); err != nil {
			return err
		}
		if err := c.rw.WriteByte(byte(bits[w])); err != nil {
			return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
		}
		c.Stats.Sent++
	}
	return nil
}

// ReceiveOutputBits reads the message sent by SendOutputBits.
func (c *Conn) ReceiveOutputBits() (map[int]int, error) {
	if _, err := c.ReceiveTag(TagOutputBits); err != nil {
		return nil, err
	}
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	bits := make(map[int]int, n)
	for i := 0; i < n; i++ {
		w, err := c.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		b, err := c.rw.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
		}
		c.Stats.Recvd++
		bits[w] = int(b)
	}
	return bits, nil
}
