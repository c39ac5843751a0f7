//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package wire implements the length-framed, tagged-record protocol
// used to carry garbled circuits, garbler inputs, oblivious-transfer
// payloads, and evaluation results between the garbler and the
// evaluator (component F). It replaces the pickled-object-graph
// transport of the original implementation with explicit binary
// framing: every record starts with a one-byte Tag, and there is no
// version field.
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/twoparty/yaogc/yaoerr"
)

// Tag identifies the record type of the next frame on the connection.
// Every record is preceded by its tag, so a party that reads an
// unexpected tag can fail fast with ProtocolViolation rather than
// misinterpret the bytes that follow.
type Tag byte

// Record tags, one per message named in spec §6.
const (
	TagInit Tag = iota + 1
	TagAck
	TagAInputs
	TagOTWireID
	TagOTGroup
	TagOTChallenge
	TagOTReceiverHalf
	TagOTSenderResponse
	TagOTDisabled
	TagOutputBits
)

func (t Tag) String() string {
	switch t {
	case TagInit:
		return "Init"
	case TagAck:
		return "Ack"
	case TagAInputs:
		return "AInputs"
	case TagOTWireID:
		return "OTWireID"
	case TagOTGroup:
		return "OTGroup"
	case TagOTChallenge:
		return "OTChallenge"
	case TagOTReceiverHalf:
		return "OTReceiverHalf"
	case TagOTSenderResponse:
		return "OTSenderResponse"
	case TagOTDisabled:
		return "OTDisabled"
	case TagOutputBits:
		return "OutputBits"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// IOStats tracks bytes moved over a Conn, mirroring the teacher
// corpus's network layer for reporting session transfer volume.
type IOStats struct {
	Sent  uint64
	Recvd uint64
}

// Conn is a length-framed, buffered connection. It owns no network
// details itself: callers wrap a net.Conn (or any io.ReadWriter, e.g.
// an in-process pipe for tests) with NewConn.
type Conn struct {
	closer io.Closer
	rw     *bufio.ReadWriter
	Stats  IOStats
}

// NewConn wraps rw in buffered length-framed I/O. If rw also
// implements io.Closer, Close will close it too.
func NewConn(rw io.ReadWriter) *Conn {
	closer, _ := rw.(io.Closer)
	return &Conn{
		closer: closer,
		rw: bufio.NewReadWriter(bufio.NewReader(rw),
			bufio.NewWriter(rw)),
	}
}

// Flush pushes any buffered output to the underlying writer.
func (c *Conn) Flush() error {
	return c.rw.Flush()
}

// Close flushes and closes the underlying connection, if closable.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// SendTag writes a one-byte record tag.
func (c *Conn) SendTag(t Tag) error {
	_, err := c.rw.Write([]byte{byte(t)})
	if err != nil {
		return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Sent++
	return nil
}

// ReceiveTag reads a one-byte record tag and fails with
// ProtocolViolation if it does not match any of want (when want is
// non-empty).
func (c *Conn) ReceiveTag(want ...Tag) (Tag, error) {
	var buf [1]byte
	if _, err := io.ReadFull(c.rw, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Recvd++
	got := Tag(buf[0])
	if len(want) == 0 {
		return got, nil
	}
	for _, w := range want {
		if got == w {
			return got, nil
		}
	}
	return got, fmt.Errorf("%w: got tag %s, want one of %v",
		yaoerr.ProtocolViolation, got, want)
}

// SendUint32 writes a big-endian uint32.
func (c *Conn) SendUint32(val int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(val))
	if _, err := c.rw.Write(buf[:]); err != nil {
		return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Sent += 4
	return nil
}

// SendBytes writes a length-prefixed byte string.
func (c *Conn) SendBytes(val []byte) error {
	if err := c.SendUint32(len(val)); err != nil {
		return err
	}
	if _, err := c.rw.Write(val); err != nil {
		return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Sent += uint64(len(val))
	return nil
}

// SendString writes a length-prefixed UTF-8 string.
func (c *Conn) SendString(val string) error {
	return c.SendBytes([]byte(val))
}

// SendBool writes a single boolean byte.
func (c *Conn) SendBool(val bool) error {
	var b byte
	if val {
		b = 1
	}
	if _, err := c.rw.Write([]byte{b}); err != nil {
		return fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Sent++
	return nil
}

// ReceiveUint32 reads a big-endian uint32.
func (c *Conn) ReceiveUint32() (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(c.rw, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Recvd += 4
	return int(binary.BigEndian.Uint32(buf[:])), nil
}

// maxFrameLen bounds a single length-prefixed field so a corrupt or
// hostile peer cannot force an unbounded allocation.
const maxFrameLen = 64 << 20

// ReceiveBytes reads a length-prefixed byte string.
func (c *Conn) ReceiveBytes() ([]byte, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxFrameLen {
		return nil, fmt.Errorf("%w: frame length %d out of bounds",
			yaoerr.ProtocolViolation, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.rw, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Recvd += uint64(n)
	return buf, nil
}

// ReceiveString reads a length-prefixed UTF-8 string.
func (c *Conn) ReceiveString() (string, error) {
	b, err := c.ReceiveBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReceiveBool reads a single boolean byte.
func (c *Conn) ReceiveBool() (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(c.rw, buf[:]); err != nil {
		return false, fmt.Errorf("%w: %v", yaoerr.TransportFailure, err)
	}
	c.Stats.Recvd++
	return buf[0] != 0, nil
}
