package screen

import (
	"math/rand"
	"testing"
)

func TestSetFieldCascade(t *testing.T) {
	s := New(24, 80)
	attr := FieldAttrByte(true, false, true, false, false, false)
	s.SetField(10, attr, false)

	for pos := 11; pos < 20; pos++ {
		if got := s.governingField(pos); got != 10 {
			t.Errorf("cell %d field_ref = %d, want 10", pos, got)
		}
	}
	if s.Unformatted {
		t.Error("screen should no longer be unformatted after SetField")
	}
}

func TestMDTRoutesToFieldStart(t *testing.T) {
	s := New(24, 80)
	attr := FieldAttrByte(false, false, true, false, false, false)
	s.SetField(10, attr, false)
	s.CursorPos = 11
	if err := s.InsertChar(0xC1, false); err != nil {
		t.Fatalf("InsertChar: %v", err)
	}
	if !s.cells[10].MDT {
		t.Error("MDT should route to governing field-start")
	}
}

func TestSetCharOverwritingFieldStartRepointsOrphans(t *testing.T) {
	s := New(24, 80)
	attrA := FieldAttrByte(false, false, true, false, false, false)
	s.SetField(5, attrA, false)
	s.SetField(10, attrA, false)
	// cells 11..19 point at field-start 10.
	if s.governingField(15) != 10 {
		t.Fatalf("setup: expected cell 15 to be governed by 10")
	}

	s.SetChar(10, 0x40) // overwrite the field-start with a space glyph

	if s.cells[10].fieldStart {
		t.Error("cell 10 should no longer be a field-start")
	}
	if got := s.governingField(15); got != 5 {
		t.Errorf("orphaned cell 15 should repoint to preceding field-start 5, got %d", got)
	}
}

func TestFindNextUnprotectedSkipsAdjacentFieldStarts(t *testing.T) {
	s := New(24, 80)
	protectedAttr := FieldAttrByte(true, false, true, false, false, false)
	unprotectedAttr := FieldAttrByte(false, false, true, false, false, false)

	// Two adjacent field-starts at 3,4 form an empty (unusable) field.
	s.SetField(3, unprotectedAttr, false)
	s.SetField(4, protectedAttr, false)
	s.SetField(20, unprotectedAttr, false)

	got := s.FindNextUnprotected(0)
	if got != 21 {
		t.Errorf("FindNextUnprotected(0) = %d, want 21 (skipping the empty field at 3)", got)
	}
}

// TestInsertShiftsWithinField: field at 10, input cells 11..19 holding
// "AB" then nulls; inserting 'X' at position 12 shifts B right, leaving
// A,X,B and setting the field's MDT.
func TestInsertShiftsWithinField(t *testing.T) {
	s := New(24, 80)
	s.SetField(10, FieldAttrByte(false, false, true, false, false, false), false)
	s.SetChar(11, 0xC1) // A
	s.SetChar(12, 0xC2) // B
	s.CursorPos = 12

	if err := s.InsertChar(0xE7, true); err != nil { // X
		t.Fatalf("InsertChar: %v", err)
	}
	want := []byte{0xC1, 0xE7, 0xC2, 0x00}
	for i, w := range want {
		if got := s.cells[11+i].Ebcdic; got != w {
			t.Errorf("cell %d = %02x, want %02x", 11+i, got, w)
		}
	}
	if !s.cells[10].MDT {
		t.Error("insert should set the governing field's MDT")
	}
	if s.CursorPos != 13 {
		t.Errorf("cursor = %d, want 13", s.CursorPos)
	}
}

func TestInsertOverflow(t *testing.T) {
	s := New(24, 80)
	attr := FieldAttrByte(false, false, true, false, false, false)
	s.SetField(10, attr, false)
	// A protected field at 20 bounds the input field to cells 11..19.
	s.SetField(20, FieldAttrByte(true, false, true, false, false, false), false)
	for pos := 11; pos <= 19; pos++ {
		s.SetChar(pos, 0xC1)
	}
	s.CursorPos = 12
	if err := s.InsertChar(0xC2, true); err != ErrInsertOverflow {
		t.Errorf("InsertChar into a full field = %v, want ErrInsertOverflow", err)
	}
	// Screen unchanged on rejection.
	for pos := 11; pos <= 19; pos++ {
		if s.cells[pos].Ebcdic != 0xC1 {
			t.Fatalf("cell %d changed by a rejected insert", pos)
		}
	}
	if s.cells[10].MDT {
		t.Error("rejected insert must not set MDT")
	}
}

func TestClearResetsStickyAndCursor(t *testing.T) {
	s := New(24, 80)
	s.CursorPos = 42
	s.Sticky.ColourSet = true
	s.Clear()
	if s.CursorPos != 0 {
		t.Errorf("CursorPos after Clear = %d, want 0", s.CursorPos)
	}
	if s.Sticky.ColourSet {
		t.Error("Sticky record should reset on Clear")
	}
	if !s.Unformatted {
		t.Error("screen should be unformatted after Clear")
	}
}

// checkFieldRefIntegrity walks backward from every non-field-start cell
// and verifies the nearest preceding field-start matches the cell's
// recorded field reference.
func checkFieldRefIntegrity(t *testing.T, s *Screen, step int) {
	t.Helper()
	n := s.N()
	for pos := 0; pos < n; pos++ {
		c := &s.cells[pos]
		if c.fieldStart {
			continue
		}
		want := noField
		for i := 1; i < n; i++ {
			idx := s.wrap(pos - i)
			if s.cells[idx].fieldStart {
				want = idx
				break
			}
		}
		if c.fieldRef != want {
			t.Fatalf("step %d: cell %d field_ref = %d, want %d", step, pos, c.fieldRef, want)
		}
	}
}

// TestFieldRefIntegrityRandomOps: for random sequences of SetField and
// SetChar operations, every non-field-start cell's back-reference
// reaches its recorded field-start before any other, after every
// operation.
func TestFieldRefIntegrityRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(4, 20) // N = 80, small enough for the O(N^2) check per step
	n := s.N()

	for step := 0; step < 500; step++ {
		pos := rng.Intn(n)
		if rng.Intn(3) == 0 {
			attr := FieldAttrByte(rng.Intn(2) == 0, false, true, false, false, false)
			s.SetField(pos, attr, false)
		} else {
			s.SetChar(pos, 0xC1)
		}
		checkFieldRefIntegrity(t, s, step)
	}
}

// TestSetMDTClearRoutesOnlyFromFieldStart: setting MDT from any cell
// sets the governing field's MDT, but clearing takes effect only from
// the field-start itself.
func TestSetMDTClearRoutesOnlyFromFieldStart(t *testing.T) {
	s := New(24, 80)
	s.SetField(10, FieldAttrByte(false, false, true, false, false, false), false)

	s.SetMDT(15, true)
	if !s.cells[10].MDT {
		t.Fatal("SetMDT(15, true) should set field 10's MDT")
	}

	s.SetMDT(15, false)
	if !s.cells[10].MDT {
		t.Fatal("SetMDT(15, false) from a non-field-start cell must not clear MDT")
	}

	s.SetMDT(10, false)
	if s.cells[10].MDT {
		t.Fatal("SetMDT(10, false) from the field-start should clear MDT")
	}
}

// TestFindNextFieldNoFields: with no field-start anywhere in the ring,
// FindNextField returns pos itself.
func TestFindNextFieldNoFields(t *testing.T) {
	s := New(24, 80)
	for _, pos := range []int{0, 1, 919, s.N() - 1} {
		if got := s.FindNextField(pos); got != pos {
			t.Errorf("FindNextField(%d) on an empty screen = %d, want %d", pos, got, pos)
		}
	}

	s.SetField(100, FieldAttrByte(true, false, true, false, false, false), false)
	if got := s.FindNextField(0); got != 100 {
		t.Errorf("FindNextField(0) = %d, want 100", got)
	}
	// From the field-start itself the walk wraps the whole ring and
	// comes back to the same position.
	if got := s.FindNextField(100); got != 100 {
		t.Errorf("FindNextField(100) = %d, want 100 (sole field)", got)
	}
}

func TestEraseUnprotectedWraps(t *testing.T) {
	s := New(2, 4) // N = 8
	unprotectedAttr := FieldAttrByte(false, false, true, false, false, false)
	s.SetField(0, unprotectedAttr, false)
	for pos := 1; pos < 8; pos++ {
		s.SetChar(pos, 0xC1)
	}
	s.EraseUnprotected(6, 2) // wraps: 6,7,0,1
	for _, pos := range []int{6, 7, 1} {
		if s.cells[pos].Ebcdic != 0 {
			t.Errorf("cell %d should have been erased", pos)
		}
	}
	// position 0 is the field-start itself; erase skips it, so it keeps
	// the null byte SetField gave it.
	if s.cells[0].Ebcdic != 0 {
		t.Errorf("field-start cell 0 byte = %02x, want null", s.cells[0].Ebcdic)
	}
}
