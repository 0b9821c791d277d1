package screen

// CharAttr names one of the four independent character-level override
// slots a cell can carry, set by the Set Attribute (SA) order's sticky
// record or by a Set Field Extended (SFE) pair.
type CharAttr int

const (
	ExtendedAttr CharAttr = iota
	ColourAttr
	CharsetAttr
	TransparencyAttr
	numCharAttrs
)

// noField marks a cell whose field reference is absent: either it is
// itself a field-start, or the screen is unformatted.
const noField = -1

// Cell is the atomic unit of the screen ring.
type Cell struct {
	Ebcdic byte

	fieldStart bool
	fieldRef   int // index of the governing field-start cell, or noField

	// Field attributes, meaningful only when fieldStart is true.
	Protected     bool
	Numeric       bool
	Display       bool
	PenSelectable bool
	Intensified   bool
	MDT           bool
	Extended      bool

	// Character-level attributes. May be set on any cell; visibility is
	// governed by the charAttrs override bits below.
	Underscore bool
	Reverse    bool
	Blink      bool
	Graphic    bool // glyph came from the GE page (set via SetGraphic; SetChar clears it)
	Colour     Colour
	Highlight  Highlight

	charAttrs [numCharAttrs]bool
}

// newCell returns a cell in its cleared state: null glyph, non-field,
// unformatted (no governing field).
func newCell() Cell {
	return Cell{fieldRef: noField}
}

// IsFieldStart reports whether this cell is a Field Attribute byte.
func (c *Cell) IsFieldStart() bool { return c.fieldStart }

// SetGraphic marks pos as carrying a glyph taken from the graphic-escape
// code page rather than the screen's selected display code page (GE
// order).
func (s *Screen) SetGraphic(pos int, on bool) {
	s.cells[pos].Graphic = on
}

// HasCharAttr reports whether this cell carries its own override for the
// given slot rather than inheriting from its governing field.
func (c *Cell) HasCharAttr(a CharAttr) bool { return c.charAttrs[a] }

// SetCharAttr turns an override bit on or off directly (used when the
// sticky character-attribute record is applied to a written cell).
func (c *Cell) SetCharAttr(a CharAttr, on bool) { c.charAttrs[a] = on }

// ResetCharAttrs clears all four override bits. SFE does not call it:
// SetField already replaces the whole cell, override bits included.
func (c *Cell) ResetCharAttrs() {
	for i := range c.charAttrs {
		c.charAttrs[i] = false
	}
}

// FieldAttrByte packs the field-start attribute byte: bit 5 protected,
// bit 4 numeric, bits 3-2 display/pen encoding, bit 0 mdt.
func FieldAttrByte(protected, numeric bool, display, penSelectable, intensified, mdt bool) byte {
	var b byte
	if protected {
		b |= 1 << 5
	}
	if numeric {
		b |= 1 << 4
	}
	switch {
	case !display && !penSelectable:
		// 11 non-display/non-pen
		b |= 0x3 << 2
	case intensified && penSelectable:
		// 10 intensified/pen
		b |= 0x2 << 2
	case display && penSelectable:
		// 01 display/pen
		b |= 0x1 << 2
	default:
		// 00 display/non-pen
	}
	if mdt {
		b |= 1
	}
	return b
}

// ParseFieldAttrByte unpacks a field attribute byte into its component
// bits, the inverse of FieldAttrByte.
func ParseFieldAttrByte(b byte) (protected, numeric, display, penSelectable, intensified, mdt bool) {
	protected = b&(1<<5) != 0
	numeric = b&(1<<4) != 0
	mdt = b&1 != 0
	switch (b >> 2) & 0x3 {
	case 0x0:
		display, penSelectable, intensified = true, false, false
	case 0x1:
		display, penSelectable, intensified = true, true, false
	case 0x2:
		display, penSelectable, intensified = true, true, true
	case 0x3:
		display, penSelectable, intensified = false, false, false
	}
	return
}
