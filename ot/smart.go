//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package ot implements Nigel Smart's Diffie-Hellman-style 1-of-2
// oblivious transfer protocol (component E), built on the fixed
// prime-order group in package group. The sender (garbler) and
// receiver (evaluator) halves are split into their own single-use
// types, each carrying its own transfer's ephemeral state.
package ot

import (
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/twoparty/yaogc/group"
	"github.com/twoparty/yaogc/yaoerr"
)

// otHashDomain domain-separates the OT mask XOF from any other use of
// SHAKE256 in this codebase (e.g. the garbled-table row key).
const otHashDomain = "ot-mask"

// hash derives an |length|-byte mask from a group element via
// SHAKE256(domain || element-bytes, length), per design note in §9.
func hash(g *group.Group, elem *big.Int, length int) []byte {
	h := sha3.NewShake256()
	h.Write([]byte(otHashDomain))
	h.Write(g.Encode(elem))
	out := make([]byte, length)
	if _, err := io.ReadFull(h, out); err != nil {
		panic(fmt.Errorf("%w: %v", yaoerr.CryptoFailure, err))
	}
	return out
}

func xorBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: OT payload length mismatch (%d != %d)",
			yaoerr.ProtocolViolation, len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// Garbler holds one sender-side OT transfer's messages and ephemeral
// state across the protocol's two round trips. A Garbler value is
// single-use: construct a fresh one per gate/wire transfer.
type Garbler struct {
	Group *group.Group
	M0    []byte
	M1    []byte

	c *big.Int
	k *big.Int
}

// NewGarbler begins a sender-side transfer of the equal-length
// messages m0, m1 over g.
func NewGarbler(g *group.Group, m0, m1 []byte) (*Garbler, error) {
	if len(m0) != len(m1) {
		return nil, fmt.Errorf("%w: OT messages must have equal length",
			yaoerr.ProtocolViolation)
	}
	return &Garbler{Group: g, M0: m0, M1: m1}, nil
}

// Challenge performs steps 1-2 of the garbler side: draw a random
// group element c and return it for transmission to the evaluator.
func (s *Garbler) Challenge() (*big.Int, error) {
	r, err := s.Group.RandScalar()
	if err != nil {
		return nil, err
	}
	s.c = s.Group.GenPow(r)
	return s.c, nil
}

// Respond performs steps 3-6: given the evaluator's h0, derive h1 = c
// * inv(h0), pick a fresh ephemeral exponent k, and encrypt both
// messages under the two possible discrete logs. Returns (c1, e0, e1)
// for transmission. e0 and e1 are opaque ciphertext byte strings, not
// group elements, and must be carried on the wire without stripping
// leading zero bytes.
func (s *Garbler) Respond(h0 *big.Int) (c1 *big.Int, e0, e1 []byte, err error) {
	if !s.Group.Contains(h0) {
		return nil, nil, nil, fmt.Errorf("%w: h0 out of range",
			yaoerr.ProtocolViolation)
	}
	if s.c == nil {
		return nil, nil, nil, fmt.Errorf(
			"%w: Respond called before Challenge", yaoerr.ProtocolViolation)
	}

	h1 := s.Group.Mul(s.c, s.Group.Inv(h0))

	k, err := s.Group.RandScalar()
	if err != nil {
		return nil, nil, nil, err
	}
	s.k = k
	c1 = s.Group.GenPow(k)

	mask0 := hash(s.Group, s.Group.Pow(h0, k), len(s.M0))
	mask1 := hash(s.Group, s.Group.Pow(h1, k), len(s.M1))

	e0, err = xorBytes(s.M0, mask0)
	if err != nil {
		return nil, nil, nil, err
	}
	e1, err = xorBytes(s.M1, mask1)
	if err != nil {
		return nil, nil, nil, err
	}

	return c1, e0, e1, nil
}

// Evaluator holds one receiver-side OT transfer's selection bit and
// ephemeral state. A Evaluator value is single-use.
type Evaluator struct {
	Group *group.Group
	Bit   int

	x *big.Int
	c *big.Int
}

// NewEvaluator begins a receiver-side transfer with selection bit
// bit (0 or 1).
func NewEvaluator(g *group.Group, bit int) (*Evaluator, error) {
	if bit != 0 && bit != 1 {
		return nil, fmt.Errorf("%w: selection bit must be 0 or 1",
			yaoerr.ProtocolViolation)
	}
	return &Evaluator{Group: g, Bit: bit}, nil
}

// Respond performs steps 3-4 of the evaluator side: given the
// garbler's challenge c, draw a fresh ephemeral exponent x and return
// h0 for transmission: g^x when the selection bit is 0, c * inv(g^x)
// when it is 1, so that h1 = c * inv(h0) = g^x. Either way the
// evaluator knows the discrete log (x) of h_b for its selection bit b.
func (r *Evaluator) Respond(c *big.Int) (*big.Int, error) {
	if !r.Group.Contains(c) {
		return nil, fmt.Errorf("%w: c out of range", yaoerr.ProtocolViolation)
	}
	r.c = c

	x, err := r.Group.RandScalar()
	if err != nil {
		return nil, err
	}
	r.x = x
	xPow := r.Group.GenPow(x)

	if r.Bit == 0 {
		return xPow, nil
	}
	return r.Group.Mul(c, r.Group.Inv(xPow)), nil
}

// Decrypt performs step 6: given the garbler's (c1, e0, e1), recover
// exactly m_b.
func (r *Evaluator) Decrypt(c1 *big.Int, e0, e1 []byte) ([]byte, error) {
	if !r.Group.Contains(c1) {
		return nil, fmt.Errorf("%w: c1 out of range", yaoerr.ProtocolViolation)
	}
	if r.x == nil {
		return nil, fmt.Errorf("%w: Decrypt called before Respond",
			yaoerr.ProtocolViolation)
	}
	if len(e0) != len(e1) {
		return nil, fmt.Errorf("%w: OT payload length mismatch",
			yaoerr.ProtocolViolation)
	}

	eb := e0
	if r.Bit == 1 {
		eb = e1
	}
	mask := hash(r.Group, r.Group.Pow(c1, r.x), len(eb))

	return xorBytes(eb, mask)
}
