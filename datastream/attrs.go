package datastream

import "github.com/mwilson3270/tn3270core/screen"

// Extended attribute type bytes.
const (
	ExtDefault         = 0x00
	ExtType3270        = 0xC0
	ExtTypeValid       = 0xC1
	ExtTypeOutline     = 0xC2
	ExtTypeHighlight   = 0x41
	ExtTypeFG          = 0x42
	ExtTypeCharSet     = 0x43
	ExtTypeBG          = 0x45
	ExtTypeTransparent = 0x46
)

// Highlight wire values.
const (
	HighlightWireDefault    = 0x00
	HighlightWireNormal     = 0xF0
	HighlightWireBlink      = 0xF1
	HighlightWireReverse    = 0xF2
	HighlightWireUnderscore = 0xF4
)

// colourTable maps the lowest 3 bits of a colour byte to screen.Colour:
// Black, Blue, Red, Magenta, Green, Cyan, Yellow, Neutral.
var colourTable = [8]screen.Colour{
	screen.ColourBlack,
	screen.ColourBlue,
	screen.ColourRed,
	screen.ColourPink,
	screen.ColourGreen,
	screen.ColourCyan,
	screen.ColourYellow,
	screen.ColourNeutral,
}

func colourFromWire(v byte) screen.Colour {
	return colourTable[v&0x07]
}

func highlightFromWire(v byte) screen.Highlight {
	switch v {
	case HighlightWireNormal:
		return screen.HighlightNormal
	case HighlightWireBlink:
		return screen.HighlightBlink
	case HighlightWireReverse:
		return screen.HighlightReverse
	case HighlightWireUnderscore:
		return screen.HighlightUnderscore
	default:
		return screen.HighlightDefault
	}
}
