//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package yaoerr defines the sentinel error kinds shared by the
// garbling, evaluation, OT, and protocol packages.
package yaoerr

import "errors"

// Sentinel error kinds. Callers use errors.Is against these to tell
// a fatal-at-load failure from a fatal-at-session-abort one.
var (
	// MalformedCircuit marks a circuit description that is missing
	// fields, references an unknown gate type, has a dangling wire,
	// or contains a cycle. Fatal at load.
	MalformedCircuit = errors.New("malformed circuit")

	// ProtocolViolation marks an unexpected message type or size, a
	// group element outside [1, p-1], or an OT payload length
	// mismatch. Fatal: abort the session.
	ProtocolViolation = errors.New("protocol violation")

	// CryptoFailure marks RNG exhaustion or a hash output shorter
	// than requested. Fatal.
	CryptoFailure = errors.New("crypto failure")

	// TransportFailure marks a peer disconnect or timeout. Surfaced
	// to the caller; the session is discarded.
	TransportFailure = errors.New("transport failure")

	// LogicMismatch is reported only in local-test mode when an
	// evaluated output disagrees with the reference truth table.
	LogicMismatch = errors.New("logic mismatch")
)
