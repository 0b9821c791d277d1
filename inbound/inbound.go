// Package inbound implements the 3270 inbound data stream builder:
// serialising an AID, cursor address, and modified fields (or a full
// read-buffer reply) into the byte stream sent back to the host, with
// 0xFF doubling and the correct 12/14/16-bit buffer-address width.
package inbound

import (
	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/screen"
)

// orderSBA is the Set Buffer Address order byte, repeated here rather than
// imported from datastream to avoid a package cycle (datastream imports
// inbound to build its RM/RB replies).
const orderSBA = 0x11

const orderSF = 0x1D

// appendByte appends b to out, doubling it first if it equals 0xFF.
// This is the only place inbound bytes are IAC-escaped; the telnet
// framer transmits the finished payload verbatim.
func appendByte(out []byte, b byte) []byte {
	if b == 0xFF {
		out = append(out, 0xFF)
	}
	return append(out, b)
}

func appendAddr(out []byte, pos, n int) []byte {
	a := screen.EncodeAddr(pos, n)
	out = appendByte(out, a[0])
	return appendByte(out, a[1])
}

// BuildShortRead serialises just AID + cursor address, with no field
// data, for the short-read AIDs (Clear, PA1-3) that never transmit
// modified fields.
func BuildShortRead(s *screen.Screen, a aid.AID) []byte {
	out := make([]byte, 0, 4)
	out = append(out, byte(a))
	out = appendAddr(out, s.CursorPos, s.N())
	return out
}

// BuildModifiedFieldRead serialises AID + cursor address + modified
// fields: for each field whose field-start has MDT set, emit SBA to the
// first cell after the field-start, then the EBCDIC bytes of subsequent
// cells up to the next field-start, skipping nulls.
func BuildModifiedFieldRead(s *screen.Screen, a aid.AID) []byte {
	n := s.N()
	out := make([]byte, 0, 64)
	out = append(out, byte(a))
	out = appendAddr(out, s.CursorPos, n)

	for _, fs := range s.ModifiedFields() {
		first := (fs + 1) % n
		out = appendByte(out, orderSBA)
		out = appendAddr(out, first, n)
		for i := 0; ; i++ {
			idx := (first + i) % n
			if idx == fs {
				break // wrapped all the way around an unformatted/solo field
			}
			c := s.Cell(idx)
			if c.IsFieldStart() {
				break
			}
			if c.Ebcdic == 0 {
				continue
			}
			out = appendByte(out, c.Ebcdic)
		}
	}
	return out
}

// BuildReadBuffer serialises AID + cursor address + every cell in ring
// order: field-starts as SF plus a reconstructed attribute byte, data
// cells as their raw EBCDIC byte.
func BuildReadBuffer(s *screen.Screen, a aid.AID) []byte {
	n := s.N()
	out := make([]byte, 0, n+8)
	out = append(out, byte(a))
	out = appendAddr(out, s.CursorPos, n)

	for i := 0; i < n; i++ {
		c := s.Cell(i)
		if c.IsFieldStart() {
			attr := screen.FieldAttrByte(c.Protected, c.Numeric, c.Display,
				c.PenSelectable, c.Intensified, c.MDT)
			out = appendByte(out, orderSF)
			out = appendByte(out, attr)
			continue
		}
		out = appendByte(out, c.Ebcdic)
	}
	return out
}
