// Package screen implements the 3270 screen buffer: a ring of character
// cells whose attributes are partly inherited from field-start cells
// scattered through the ring.
package screen

import "fmt"

// ErrInsertOverflow is returned by InsertChar when there is no null cell
// left in the current field to shift into.
var ErrInsertOverflow = fmt.Errorf("screen: insert overflow")

// ErrProtected is returned by editing operations attempted against a
// protected cell or a field-start cell.
var ErrProtected = fmt.Errorf("screen: cell is protected")

// Codepage is the minimal translation contract screen needs; any type
// satisfying this (including tn3270core.Codepage) may be passed in.
type Codepage interface {
	Decode([]byte) string
	Encode(string) []byte
}

// CharAttrRecord is the Set Attribute order's per-screen sticky record.
// Each slot is either "default" (inherit from field) or set to an
// explicit value.
type CharAttrRecord struct {
	ColourSet    bool
	Colour       Colour
	HighlightSet bool
	Highlight    Highlight
	// Charset and Transparency are tracked as on/off only; this module
	// does not otherwise interpret their values (no DBCS charsets, no
	// transparency compositing).
	CharsetSet      bool
	TransparencySet bool
}

// Reset clears every slot back to "default", the state after Clear or a
// new Write command.
func (r *CharAttrRecord) Reset() { *r = CharAttrRecord{} }

// Screen is a fixed-size ring of cells.
type Screen struct {
	Rows, Cols int
	cells      []Cell

	CursorPos    int
	Unformatted  bool
	Sticky       CharAttrRecord
	InsertCursor int // position set by the IC order

	// LastAID is the AID byte of the most recent inbound submission.
	// The session controller records it on every AID submit; the RM
	// command replays it.
	LastAID byte
}

// New creates a screen of rows x cols cells, already cleared.
func New(rows, cols int) *Screen {
	s := &Screen{Rows: rows, Cols: cols}
	s.cells = make([]Cell, rows*cols)
	s.Clear()
	s.LastAID = 0x60 // "no AID" until the first submission
	return s
}

// N is the total cell count, used throughout to pick the buffer-address
// wire encoding.
func (s *Screen) N() int { return len(s.cells) }

// Cell returns a copy of the cell at pos. Callers needing to mutate cell
// state should use the Screen methods below rather than writing through
// this copy.
func (s *Screen) Cell(pos int) Cell { return s.cells[pos] }

func (s *Screen) wrap(pos int) int {
	n := s.N()
	pos %= n
	if pos < 0 {
		pos += n
	}
	return pos
}

// Clear resets every cell to null/non-field-start/default, marks the
// screen unformatted, resets the sticky attribute record, and homes the
// cursor.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = newCell()
	}
	s.Unformatted = true
	s.Sticky.Reset()
	s.CursorPos = 0
	s.InsertCursor = 0
}

// governingField returns the index of the cell whose attributes govern
// pos: pos itself if pos is a field-start, pos's field_ref otherwise, or
// noField if the screen is unformatted.
func (s *Screen) governingField(pos int) int {
	c := &s.cells[pos]
	if c.fieldStart {
		return pos
	}
	return c.fieldRef
}

// IsProtected reports whether pos is governed by a protected field, or
// is itself a field-start. Field-starts always reject input regardless
// of their own protected bit.
func (s *Screen) IsProtected(pos int) bool {
	c := &s.cells[pos]
	if c.fieldStart {
		return true
	}
	if c.fieldRef == noField {
		return false
	}
	return s.cells[c.fieldRef].Protected
}

// IsDisplay, EffectiveColour, EffectiveUnderscore, etc. implement the
// field-inheritance rule:
// a cell's own character-level override if it has one for that slot,
// else the governing field's value, else the screen default.

func (s *Screen) IsDisplay(pos int) bool {
	c := &s.cells[pos]
	if c.fieldStart {
		return c.Display
	}
	if c.fieldRef == noField {
		return true
	}
	return s.cells[c.fieldRef].Display
}

func (s *Screen) EffectiveColour(pos int) Colour {
	c := &s.cells[pos]
	if c.HasCharAttr(ColourAttr) {
		return c.Colour
	}
	if c.fieldStart {
		return c.Colour
	}
	if c.fieldRef == noField {
		return ColourDefault
	}
	return s.cells[c.fieldRef].Colour
}

func (s *Screen) EffectiveUnderscore(pos int) bool {
	c := &s.cells[pos]
	if c.fieldStart {
		return false
	}
	if c.HasCharAttr(ExtendedAttr) {
		return c.Underscore
	}
	if c.fieldRef != noField && s.cells[c.fieldRef].Underscore {
		return true
	}
	return c.Underscore
}

func (s *Screen) EffectiveReverse(pos int) bool {
	c := &s.cells[pos]
	if c.fieldStart {
		return false
	}
	if c.HasCharAttr(ExtendedAttr) {
		return c.Reverse
	}
	if c.fieldRef != noField && s.cells[c.fieldRef].Reverse {
		return true
	}
	return c.Reverse
}

func (s *Screen) EffectiveBlink(pos int) bool {
	c := &s.cells[pos]
	if c.fieldStart {
		return false
	}
	if c.HasCharAttr(ExtendedAttr) {
		return c.Blink
	}
	if c.fieldRef != noField {
		return s.cells[c.fieldRef].Blink
	}
	return c.Blink
}

// SetField makes the cell at pos a field-start with the given attribute
// byte, cascading the field reference over every following cell up to
// the next field-start.
func (s *Screen) SetField(pos int, attrByte byte, extended bool) {
	protected, numeric, display, pen, intensified, mdt := ParseFieldAttrByte(attrByte)
	c := &s.cells[pos]
	*c = Cell{
		Ebcdic:        0,
		fieldStart:    true,
		fieldRef:      noField,
		Protected:     protected,
		Numeric:       numeric,
		Display:       display,
		PenSelectable: pen,
		Intensified:   intensified,
		MDT:           mdt,
		Extended:      extended,
		Colour:        defaultColour(protected, intensified),
	}
	s.Unformatted = false
	s.cascadeField(pos)
}

// SetExtendedColour sets the field-start's own colour. Background
// colour is not modelled separately; a cell carries a single Colour.
func (s *Screen) SetExtendedColour(pos int, col Colour) {
	s.cells[pos].Colour = col
}

// SetExtendedHighlight sets the field-start's own highlight value.
func (s *Screen) SetExtendedHighlight(pos int, h Highlight) {
	c := &s.cells[pos]
	c.Highlight = h
	switch h {
	case HighlightBlink:
		c.Blink = true
	case HighlightReverse:
		c.Reverse = true
	case HighlightUnderscore:
		c.Underscore = true
	}
}

// cascadeField repoints every cell after pos, up to the next field-start,
// to field_ref = pos.
func (s *Screen) cascadeField(pos int) {
	n := s.N()
	for i := 1; i < n; i++ {
		idx := s.wrap(pos + i)
		if s.cells[idx].fieldStart {
			break
		}
		s.cells[idx].fieldRef = pos
	}
}

// SetChar places a glyph already in EBCDIC form (from the host data
// stream). If pos was a field-start, it ceases to be one and every cell
// that pointed at it is repointed to whichever field-start now precedes
// pos, or to no field when none remains.
func (s *Screen) SetChar(pos int, ebcdic byte) {
	c := &s.cells[pos]
	wasFieldStart := c.fieldStart
	prevRef := noField
	if wasFieldStart {
		prevRef = s.findPrecedingFieldStart(pos)
	}

	governing := noField
	if wasFieldStart {
		governing = prevRef
	} else {
		governing = c.fieldRef
	}

	*c = Cell{Ebcdic: ebcdic, fieldRef: governing}
	s.applySticky(c)

	if wasFieldStart {
		s.repointOrphans(pos, prevRef)
	}
}

// SetCharFromKeyboard translates r through cp and stores the resulting
// EBCDIC byte.
func (s *Screen) SetCharFromKeyboard(pos int, r rune, cp Codepage) {
	enc := cp.Encode(string(r))
	var b byte
	if len(enc) > 0 {
		b = enc[0]
	}
	s.SetChar(pos, b)
}

// applySticky turns on whichever character-level override bits the
// sticky record currently has active.
func (s *Screen) applySticky(c *Cell) {
	if s.Sticky.ColourSet {
		c.SetCharAttr(ColourAttr, true)
		c.Colour = s.Sticky.Colour
	}
	if s.Sticky.HighlightSet {
		c.SetCharAttr(ExtendedAttr, true)
		c.Highlight = s.Sticky.Highlight
		switch s.Sticky.Highlight {
		case HighlightBlink:
			c.Blink = true
		case HighlightReverse:
			c.Reverse = true
		case HighlightUnderscore:
			c.Underscore = true
		}
	}
}

// findPrecedingFieldStart walks backward from pos (exclusive) to the
// nearest field-start, or noField if there is none (unformatted once
// this field-start is removed).
func (s *Screen) findPrecedingFieldStart(pos int) int {
	n := s.N()
	for i := 1; i < n; i++ {
		idx := s.wrap(pos - i)
		if idx == pos {
			break
		}
		if s.cells[idx].fieldStart {
			return idx
		}
	}
	return noField
}

// repointOrphans walks forward from pos+1 until the next field-start,
// repointing every cell whose field_ref was pos to newRef.
func (s *Screen) repointOrphans(pos, newRef int) {
	n := s.N()
	for i := 1; i < n; i++ {
		idx := s.wrap(pos + i)
		c := &s.cells[idx]
		if c.fieldStart {
			break
		}
		if c.fieldRef == pos {
			c.fieldRef = newRef
		}
	}
}

// FindNextField returns the nearest field-start after pos in ring order,
// or pos itself if none exists.
func (s *Screen) FindNextField(pos int) int {
	n := s.N()
	for i := 1; i <= n; i++ {
		idx := s.wrap(pos + i)
		if s.cells[idx].fieldStart {
			return idx
		}
	}
	return pos
}

// isUsableUnprotectedStart reports whether the field-start at idx governs
// a real (non-empty) unprotected input field: the very next cell must
// not itself be a field-start, since adjacent field-starts cannot form
// an input field.
func (s *Screen) isUsableUnprotectedStart(idx int) bool {
	c := &s.cells[idx]
	if c.Protected {
		return false
	}
	next := s.wrap(idx + 1)
	return !s.cells[next].fieldStart
}

// FindNextUnprotected returns the position of the first input cell (the
// cell after a usable unprotected field-start) at or after pos.
func (s *Screen) FindNextUnprotected(pos int) int {
	n := s.N()
	for i := 0; i <= n; i++ {
		idx := s.wrap(pos + i)
		if s.cells[idx].fieldStart && s.isUsableUnprotectedStart(idx) {
			return s.wrap(idx + 1)
		}
	}
	return pos
}

// FindPrevUnprotected returns the position of the first input cell of the
// nearest usable unprotected field at or before pos, searching backward.
func (s *Screen) FindPrevUnprotected(pos int) int {
	n := s.N()
	for i := 0; i <= n; i++ {
		idx := s.wrap(pos - i)
		if s.cells[idx].fieldStart && s.isUsableUnprotectedStart(idx) {
			return s.wrap(idx + 1)
		}
	}
	return pos
}

// EraseUnprotected nulls every unprotected, non-field-start cell from
// start up to (not including) end, wrapping if end < start.
func (s *Screen) EraseUnprotected(start, end int) {
	if end < start {
		end += s.N()
	}
	for i := start; i < end; i++ {
		idx := s.wrap(i)
		c := &s.cells[idx]
		if c.fieldStart || s.IsProtected(idx) {
			continue
		}
		c.Ebcdic = 0
	}
}

// InsertChar places ebcdic at the cursor, shifting the remainder of the
// field right first when insertMode is on.
func (s *Screen) InsertChar(ebcdic byte, insertMode bool) error {
	pos := s.CursorPos
	if s.IsProtected(pos) {
		return ErrProtected
	}

	if insertMode {
		target := s.findNullInField(pos)
		if target < 0 {
			return ErrInsertOverflow
		}
		s.shiftRight(pos, target)
	}

	field := s.governingField(pos)
	s.cells[pos].Ebcdic = ebcdic
	if field != noField {
		s.cells[field].MDT = true
	}

	s.CursorPos = s.wrap(pos + 1)
	if s.IsProtected(s.CursorPos) && s.cells[s.governingFieldSafe(s.CursorPos)].Numeric {
		s.CursorPos = s.FindNextUnprotected(s.CursorPos)
	}
	return nil
}

func (s *Screen) governingFieldSafe(pos int) int {
	f := s.governingField(pos)
	if f == noField {
		return pos
	}
	return f
}

// findNullInField returns the first null cell at or after pos within the
// same field (before the next field-start), or -1 if none.
func (s *Screen) findNullInField(pos int) int {
	n := s.N()
	for i := 0; i < n; i++ {
		idx := s.wrap(pos + i)
		c := &s.cells[idx]
		if i > 0 && c.fieldStart {
			return -1
		}
		if c.Ebcdic == 0 {
			return idx
		}
	}
	return -1
}

// shiftRight shifts cells (from, to] right by one, discarding the cell at
// "to" (which was null) and opening a hole at "from".
func (s *Screen) shiftRight(from, to int) {
	n := s.N()
	dist := to - from
	if dist < 0 {
		dist += n
	}
	for i := dist; i > 0; i-- {
		dst := s.wrap(from + i)
		src := s.wrap(from + i - 1)
		s.cells[dst].Ebcdic = s.cells[src].Ebcdic
	}
	s.cells[from].Ebcdic = 0
}

// DeleteChar removes the cell at the cursor, shifting the remainder of
// the field left and nulling its last cell.
func (s *Screen) DeleteChar() error {
	pos := s.CursorPos
	if s.IsProtected(pos) {
		return ErrProtected
	}
	n := s.N()
	last := pos
	for i := 1; i < n; i++ {
		idx := s.wrap(pos + i)
		if s.cells[idx].fieldStart {
			break
		}
		s.cells[s.wrap(idx-1)].Ebcdic = s.cells[idx].Ebcdic
		last = idx
	}
	s.cells[last].Ebcdic = 0
	if f := s.governingField(pos); f != noField {
		s.cells[f].MDT = true
	}
	return nil
}

// EraseEOF nulls from the cursor through the end of the current field
// and sets the field's MDT.
func (s *Screen) EraseEOF() {
	pos := s.CursorPos
	n := s.N()
	for i := 0; i < n; i++ {
		idx := s.wrap(pos + i)
		if i > 0 && s.cells[idx].fieldStart {
			break
		}
		s.cells[idx].Ebcdic = 0
	}
	if f := s.governingField(pos); f != noField {
		s.cells[f].MDT = true
	}
}

// SetMDT sets or clears the MDT bit of pos's governing field: setting
// routes from any cell to the governing field-start, but clearing takes
// effect only when pos is the field-start itself. It is a no-op if pos
// is unformatted.
func (s *Screen) SetMDT(pos int, on bool) {
	if !on && !s.cells[pos].fieldStart {
		return
	}
	f := s.governingField(pos)
	if f == noField {
		return
	}
	s.cells[f].MDT = on
}

// ModifiedFields returns, in ring order starting from 0, the index of
// every field-start cell whose MDT bit is set.
func (s *Screen) ModifiedFields() []int {
	var out []int
	for i, c := range s.cells {
		if c.fieldStart && c.MDT {
			out = append(out, i)
		}
	}
	return out
}
