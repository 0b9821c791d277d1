package inbound

import (
	"bytes"
	"testing"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/screen"
)

// TestBuildModifiedFieldReadEnter: a 24x80 screen with one unprotected
// field at pos 10 (input cells 11..19), "ABC" typed starting at 11,
// Enter pressed with the cursor left at 14. Expected payload: AID
// Enter, cursor address 14, SBA to 11, then "ABC" in EBCDIC.
func TestBuildModifiedFieldReadEnter(t *testing.T) {
	s := screen.New(24, 80)
	s.SetField(10, screen.FieldAttrByte(false, false, true, false, false, false), false)
	s.SetChar(11, 0xC1) // A
	s.SetChar(12, 0xC2) // B
	s.SetChar(13, 0xC3) // C
	s.SetMDT(11, true)
	s.CursorPos = 14

	got := BuildModifiedFieldRead(s, aid.Enter)

	addr14 := screen.EncodeAddr(14, s.N())
	addr11 := screen.EncodeAddr(11, s.N())
	want := []byte{byte(aid.Enter), addr14[0], addr14[1],
		0x11, addr11[0], addr11[1], 0xC1, 0xC2, 0xC3}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildModifiedFieldRead = % X, want % X", got, want)
	}
}

// TestBuildModifiedFieldReadSkipsNulls: a null in the middle of a
// modified field is omitted from the inbound bytes, but an explicit
// space (EBCDIC 0x40) is kept.
func TestBuildModifiedFieldReadSkipsNulls(t *testing.T) {
	s := screen.New(24, 80)
	s.SetField(0, screen.FieldAttrByte(false, false, true, false, false, false), false)
	s.SetChar(1, 0xC1) // A
	// position 2 left null
	s.SetChar(3, 0x40) // explicit space
	s.SetMDT(1, true)
	s.CursorPos = 4

	got := BuildModifiedFieldRead(s, aid.Enter)

	addr4 := screen.EncodeAddr(4, s.N())
	addr1 := screen.EncodeAddr(1, s.N())
	want := []byte{byte(aid.Enter), addr4[0], addr4[1],
		0x11, addr1[0], addr1[1], 0xC1, 0x40}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildModifiedFieldRead = % X, want % X", got, want)
	}
}

// TestBuildModifiedFieldReadOmitsUnmodifiedFields checks that fields
// whose field-start has no MDT set contribute nothing to the payload.
func TestBuildModifiedFieldReadOmitsUnmodifiedFields(t *testing.T) {
	s := screen.New(24, 80)
	s.SetField(0, screen.FieldAttrByte(false, false, true, false, false, false), false)
	s.SetChar(1, 0xC1)
	s.CursorPos = 0

	got := BuildModifiedFieldRead(s, aid.Enter)
	addr0 := screen.EncodeAddr(0, s.N())
	want := []byte{byte(aid.Enter), addr0[0], addr0[1]}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildModifiedFieldRead = % X, want % X (no fields modified)", got, want)
	}
}

// TestBuildShortRead: Clear/PA1-3 AIDs transmit only the AID and
// cursor address, never field data, even when a field has been
// modified.
func TestBuildShortRead(t *testing.T) {
	s := screen.New(24, 80)
	s.SetField(0, screen.FieldAttrByte(false, false, true, false, false, false), false)
	s.SetChar(1, 0xC1)
	s.SetMDT(1, true)
	s.CursorPos = 5

	got := BuildShortRead(s, aid.Clear)
	addr5 := screen.EncodeAddr(5, s.N())
	want := []byte{byte(aid.Clear), addr5[0], addr5[1]}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildShortRead = % X, want % X", got, want)
	}
}

// TestBuildModifiedFieldRead0xFFDoubling: any emitted byte equal to
// 0xFF appears twice consecutively in the wire frame. A screen of
// exactly 4096 cells (14-bit addressing) puts 0xFF in the low byte of
// address 4095: (4095>>8)&0x3F = 0x0F, 4095&0xFF = 0xFF.
func TestBuildModifiedFieldRead0xFFDoubling(t *testing.T) {
	s := screen.New(64, 64) // N = 4096, 14-bit addressing
	s.CursorPos = 4095

	got := BuildModifiedFieldRead(s, aid.Enter)
	want := []byte{byte(aid.Enter), 0x0F, 0xFF, 0xFF}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildModifiedFieldRead = % X, want % X (0xFF doubled)", got, want)
	}
}

// TestBuildReadBuffer checks RB's field-start-as-SF / data-cell-as-raw
// -byte structure.
func TestBuildReadBuffer(t *testing.T) {
	s := screen.New(2, 2) // N = 4, 12-bit addressing
	attr := screen.FieldAttrByte(true, false, true, false, false, true)
	s.SetField(0, attr, false)
	s.SetChar(1, 0xC1)
	s.CursorPos = 0

	got := BuildReadBuffer(s, aid.Enter)

	addr0 := screen.EncodeAddr(0, s.N())
	want := []byte{byte(aid.Enter), addr0[0], addr0[1],
		0x1D, attr, // SF + reconstructed attribute byte at pos 0
		0xC1,       // data cell at pos 1
		0x00,       // cell 2: null, unformatted-null screen default
		0x00,       // cell 3: null
	}

	if !bytes.Equal(got, want) {
		t.Errorf("BuildReadBuffer = % X, want % X", got, want)
	}
}
