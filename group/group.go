//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package group implements the fixed-prime multiplicative group used
// by the oblivious transfer protocol. Operations mirror the naming of
// the project's big-integer helpers: each returns a fresh *big.Int and
// never mutates its arguments.
package group

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/twoparty/yaogc/yaoerr"
)

// modp14Hex is the RFC 3526 2048-bit MODP Group 14 prime, written as
// contiguous hex without separators.
const modp14Hex = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
	"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
	"15728E5A8AACAA68FFFFFFFFFFFFFFFF"

// Group describes a prime-order multiplicative subgroup of Z_p^*,
// transmissible across the wire as (P, G, Order).
type Group struct {
	P     *big.Int
	G     *big.Int
	Order *big.Int
}

// New14 returns the fixed RFC 3526 Group 14 parameters: a 2048-bit
// safe prime p = 2*order + 1 with generator g = 2.
func New14() *Group {
	p, ok := new(big.Int).SetString(modp14Hex, 16)
	if !ok {
		panic("group: invalid embedded MODP-14 prime")
	}
	order := new(big.Int).Rsh(p, 1) // (p-1)/2, p is a safe prime
	return &Group{
		P:     p,
		G:     big.NewInt(2),
		Order: order,
	}
}

// RandScalar returns a uniform random scalar in [0, order).
func (g *Group) RandScalar() (*big.Int, error) {
	x, err := rand.Int(rand.Reader, g.Order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", yaoerr.CryptoFailure, err)
	}
	return x, nil
}

// GenPow computes g^x mod p.
func (g *Group) GenPow(x *big.Int) *big.Int {
	return new(big.Int).Exp(g.G, x, g.P)
}

// Pow computes h^x mod p.
func (g *Group) Pow(h, x *big.Int) *big.Int {
	return new(big.Int).Exp(h, x, g.P)
}

// Mul computes a*b mod p.
func (g *Group) Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), g.P)
}

// Inv computes the multiplicative inverse of a mod p via Fermat's
// little theorem: a^(p-2) mod p.
func (g *Group) Inv(a *big.Int) *big.Int {
	exp := new(big.Int).Sub(g.P, big.NewInt(2))
	return new(big.Int).Exp(a, exp, g.P)
}

// Contains reports whether x is a valid group element, i.e. in
// [1, p-1]. Received elements outside that range must be rejected.
func (g *Group) Contains(x *big.Int) bool {
	if x.Sign() <= 0 {
		return false
	}
	return x.Cmp(g.P) < 0
}

// ByteLen returns the width, in bytes, of a fixed-size encoding of a
// group element.
func (g *Group) ByteLen() int {
	return (g.P.BitLen() + 7) / 8
}

// Encode serializes x as a fixed-width big-endian byte string sized
// to the group's modulus.
func (g *Group) Encode(x *big.Int) []byte {
	buf := make([]byte, g.ByteLen())
	b := x.Bytes()
	copy(buf[len(buf)-len(b):], b)
	return buf
}

// Decode parses a fixed-width big-endian byte string into a group
// element, rejecting values outside [1, p-1].
func (g *Group) Decode(data []byte) (*big.Int, error) {
	x := new(big.Int).SetBytes(data)
	if !g.Contains(x) {
		return nil, fmt.Errorf("%w: group element out of range",
			yaoerr.ProtocolViolation)
	}
	return x, nil
}
