package datastream

import (
	"bytes"
	"testing"

	"github.com/mwilson3270/tn3270core/screen"
)

type fakeHost struct {
	primary, alt *screen.Screen
	alternate    bool
}

func newFakeHost(rows, cols int) *fakeHost {
	return &fakeHost{primary: screen.New(24, 80), alt: screen.New(rows, cols)}
}

func (h *fakeHost) Active() *screen.Screen {
	if h.alternate {
		return h.alt
	}
	return h.primary
}

func (h *fakeHost) SelectAlternate(alternate bool) { h.alternate = alternate }

// TestEWSBASFData: an Erase/Write carrying SBA to 0, an SF, and EBCDIC
// "HELLO" clears the screen, defines the field, places the glyphs at
// 1..5, and leaves the cursor at 6.
func TestEWSBASFData(t *testing.T) {
	host := newFakeHost(43, 80)
	in := New(host, Hooks{})

	record := []byte{0xF5, 0xC3, 0x11, 0x40, 0x40, 0x1D, 0xF0, 0xC8, 0xC5, 0xD3, 0xD3, 0xD6}
	reply, err := in.ProcessRecord(record)
	if err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}
	if reply != nil {
		t.Fatalf("expected no reply, got %x", reply)
	}

	s := host.Active()
	if s.CursorPos != 6 {
		t.Fatalf("cursor = %d, want 6", s.CursorPos)
	}
	c0 := s.Cell(0)
	if !c0.IsFieldStart() || !c0.Protected || !c0.Display {
		t.Fatalf("cell 0 = %+v, want protected display field-start", c0)
	}
	want := []byte{0xC8, 0xC5, 0xD3, 0xD3, 0xD6}
	for i, w := range want {
		if got := s.Cell(1 + i).Ebcdic; got != w {
			t.Fatalf("cell %d = %02x, want %02x", 1+i, got, w)
		}
	}
}

// TestSFEAppliesExtendedPairs: an SFE carrying a base attribute byte, a
// foreground colour, and an underscore highlight must leave the
// field-start with the colour and highlight applied on top of the base
// attributes rather than the (protected, intensified) default colour.
func TestSFEAppliesExtendedPairs(t *testing.T) {
	host := newFakeHost(24, 80)
	in := New(host, Hooks{})

	attr := screen.FieldAttrByte(false, false, true, false, false, false)
	record := []byte{CmdW, 0x00, OrderSFE, 0x03,
		ExtType3270, attr,
		ExtTypeFG, 0xF2, // red
		ExtTypeHighlight, HighlightWireUnderscore,
	}
	if _, err := in.ProcessRecord(record); err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}

	s := host.Active()
	c := s.Cell(0)
	if !c.IsFieldStart() || c.Protected {
		t.Fatalf("cell 0 = %+v, want unprotected field-start", c)
	}
	if !c.Extended {
		t.Error("SFE field-start should be marked extended")
	}
	if c.Colour != screen.ColourRed {
		t.Errorf("field colour = %v, want ColourRed", c.Colour)
	}
	if c.Highlight != screen.HighlightUnderscore || !c.Underscore {
		t.Errorf("field highlight = %v underscore=%v, want underscore set", c.Highlight, c.Underscore)
	}
	// Cells in the field inherit the extended colour.
	if got := s.EffectiveColour(1); got != screen.ColourRed {
		t.Errorf("EffectiveColour(1) = %v, want ColourRed", got)
	}
}

// TestSFEPairsBeforeAttrByteStillApply: pair order on the wire must not
// matter — a colour pair listed before the base attribute pair survives.
func TestSFEPairsBeforeAttrByteStillApply(t *testing.T) {
	host := newFakeHost(24, 80)
	in := New(host, Hooks{})

	attr := screen.FieldAttrByte(true, false, true, false, false, false)
	record := []byte{CmdW, 0x00, OrderSFE, 0x02,
		ExtTypeFG, 0xF5, // cyan
		ExtType3270, attr,
	}
	if _, err := in.ProcessRecord(record); err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}

	c := host.Active().Cell(0)
	if !c.Protected {
		t.Fatal("base attribute byte should still apply")
	}
	if c.Colour != screen.ColourCyan {
		t.Errorf("field colour = %v, want ColourCyan", c.Colour)
	}
}

// TestReadPartitionQueryReply: a WSF Read Partition Query produces a
// reply whose Summary record lists the supported Query Reply ids.
func TestReadPartitionQueryReply(t *testing.T) {
	host := newFakeHost(43, 80)
	in := New(host, Hooks{})

	record := []byte{0xF3, 0x00, 0x05, 0x01, 0xFF, 0x02}
	reply, err := in.ProcessRecord(record)
	if err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}
	if len(reply) < 3 || reply[0] != 0x88 {
		t.Fatalf("reply = %x, want AID 0x88 prefix", reply)
	}

	// Summary record starts right after AID + 2-byte cursor address.
	summary := reply[3:]
	if summary[2] != SFQueryReply || summary[3] != QRSummary {
		t.Fatalf("summary header = %x", summary[:4])
	}
	ids := summary[4:]
	for _, want := range []byte{QRSummary, QRUsable, QRColour, QRHighlight, QRImplicitParts} {
		if !bytes.Contains(ids, []byte{want}) {
			t.Fatalf("summary ids %x missing %02x", ids, want)
		}
	}
}

func TestWCCResetMDTAndKeyboard(t *testing.T) {
	host := newFakeHost(24, 80)
	unlocked := false
	in := New(host, Hooks{UnlockKeyboard: func() { unlocked = true }})

	s := host.Active()
	s.SetField(0, screen.FieldAttrByte(false, false, true, false, false, true), false)
	if len(s.ModifiedFields()) != 1 {
		t.Fatalf("expected field 0 to start MDT-set")
	}

	// W with WCC = reset-MDT (bit0) | reset-keyboard (bit1).
	if _, err := in.ProcessRecord([]byte{CmdW, 0x03}); err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}
	if len(s.ModifiedFields()) != 0 {
		t.Fatalf("expected MDT cleared by WCC reset-MDT bit")
	}
	if !unlocked {
		t.Fatalf("expected UnlockKeyboard hook to fire on WCC reset-keyboard bit")
	}
}

func TestRAFillWraps(t *testing.T) {
	host := newFakeHost(24, 80)
	in := New(host, Hooks{})
	s := host.Active()
	s.CursorPos = s.N() - 2

	end := screen.EncodeAddr(2, s.N())
	record := append([]byte{CmdW, 0x00, OrderRA}, end[0], end[1], 0x40)
	if _, err := in.ProcessRecord(record); err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}
	for _, pos := range []int{s.N() - 2, s.N() - 1, 0, 1} {
		if s.Cell(pos).Ebcdic != 0x40 {
			t.Fatalf("cell %d not filled by wrap-around RA", pos)
		}
	}
}

// TestReadModifiedReplaysLastAID checks that RM synthesizes an inbound
// frame carrying the AID of the last submission recorded on the screen.
func TestReadModifiedReplaysLastAID(t *testing.T) {
	host := newFakeHost(24, 80)
	in := New(host, Hooks{})
	s := host.Active()
	s.LastAID = 0x7D // Enter

	reply, err := in.ProcessRecord([]byte{CmdRM})
	if err != nil {
		t.Fatalf("ProcessRecord: %v", err)
	}
	if len(reply) < 3 || reply[0] != 0x7D {
		t.Fatalf("reply = %x, want last AID 0x7D replayed", reply)
	}
}

func TestUnknownCommandAborts(t *testing.T) {
	host := newFakeHost(24, 80)
	in := New(host, Hooks{})
	if _, err := in.ProcessRecord([]byte{0x00}); err != ErrUnknownCommand {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}
