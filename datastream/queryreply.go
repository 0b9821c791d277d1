package datastream

import "github.com/mwilson3270/tn3270core/screen"

// Query Reply sub-ids.
const (
	QRSummary       = 0x80
	QRUsable        = 0x81
	QRAlphaParts    = 0x84
	QRCharSets      = 0x85
	QRColour        = 0x86
	QRHighlight     = 0x87
	QRReplyModes    = 0x88
	QRDDM           = 0x95
	QRRPQNames      = 0xA1
	QRImplicitParts = 0xA6
)

// record prefixes payload with its own (length-high, length-low, 0x81,
// id) framing.
func record(id byte, payload ...byte) []byte {
	total := len(payload) + 4 // 2-byte length field + 0x81 tag + id byte
	out := make([]byte, 0, total)
	out = append(out, byte(total>>8), byte(total&0xFF), SFQueryReply, id)
	out = append(out, payload...)
	return out
}

// BuildQueryReply assembles the Read Partition Query Reply bundle: a
// Summary record naming every supported reply id, plus one record per
// supported id. Values that depend on the active screen's dimensions
// are filled in from s at emit time.
func BuildQueryReply(s *screen.Screen) []byte {
	var out []byte

	out = append(out, record(QRSummary,
		QRSummary, QRUsable, QRAlphaParts, QRCharSets, QRColour,
		QRHighlight, QRReplyModes, QRDDM, QRRPQNames, QRImplicitParts)...)

	out = append(out, buildUsableArea(s)...)
	out = append(out, buildAlphaParts(s)...)
	out = append(out, buildCharSets()...)
	out = append(out, buildColour()...)
	out = append(out, buildHighlight()...)
	out = append(out, buildReplyModes()...)
	out = append(out, buildDDM()...)
	out = append(out, buildRPQNames()...)
	out = append(out, buildImplicitParts(s)...)

	return out
}

// buildUsableArea: 12/14-bit addressing flag, width/height of the
// usable (current) screen, units in mm, and the default character cell
// size.
func buildUsableArea(s *screen.Screen) []byte {
	w, h := byte(s.Cols), byte(s.Rows)
	size := s.Cols * s.Rows
	return record(QRUsable,
		0x01,       // 12/14 bit addressing allowed
		0x00,       // variable cells not supported, matrix character, units in cells
		0x00, w,    // width of usable area
		0x00, h,    // height of usable area
		0x01,       // size in mm
		0x00, 0x0A, // distance between points in X, numerator
		0x02, 0xE5, // denominator
		0x00, 0x02, // distance between points in Y, numerator
		0x00, 0x6F, // denominator
		0x09,                    // X units in default cell
		0x0C,                    // Y units in default cell
		byte(size>>8), byte(size&0xFF),
	)
}

// buildAlphaParts: one partition, no vertical scrolling/APA/partition
// protection/copy/modify.
func buildAlphaParts(s *screen.Screen) []byte {
	size := s.Cols * s.Rows
	return record(QRAlphaParts,
		0x00,
		byte(size>>8), byte(size&0xFF),
		0x00,
	)
}

// buildCharSets advertises graphic-escape support only (charset 2, the
// line-draw page this module's codepage package ships).
func buildCharSets() []byte {
	return record(QRCharSets,
		0x82, // graphic escape, single char size, no DBCS
		0x00, // LOAD PS slot size required
		0x09, // default width
		0x0C, // default height
		0x00, 0x00, 0x00, 0x00,
		0x02, // char set 2 (graphic escape)
		0x00, // non-loadable, single plane, single byte, LCID compare
	)
}

// buildColour: default colour plus the 7 named colours, each as a
// (colour-id, colour-value) pair.
func buildColour() []byte {
	return record(QRColour,
		0x00,       // flags
		0x08,       // number of colours, plus default
		0x00, 0xF4, // default
		0xF1, 0xF1, // blue
		0xF2, 0xF2, // red
		0xF3, 0xF3, // magenta
		0xF4, 0xF4, // green
		0xF5, 0xF5, // cyan
		0xF6, 0xF6, // yellow
		0xF7, 0xF7, // neutral
	)
}

// buildHighlight: default, blink, reverse, underscore pairs.
func buildHighlight() []byte {
	return record(QRHighlight,
		0x04,
		0x00, 0xF0,
		0xF1, 0xF1,
		0xF2, 0xF2,
		0xF4, 0xF4,
	)
}

// buildReplyModes advertises field, extended-field, and character mode.
func buildReplyModes() []byte {
	return record(QRReplyModes, 0x00, 0x01, 0x02)
}

// buildDDM advertises a single 4096-byte subset.
func buildDDM() []byte {
	return record(QRDDM,
		0x00, 0x00, // reserved
		0x10, 0x00, // limin 4096
		0x10, 0x00, // limout 4096
		0x01, // 1 subset
		0x01, // subset id
	)
}

// buildRPQNames advertises no device/model-specific RPQs beyond the
// module's own short name.
func buildRPQNames() []byte {
	name := []byte("tn3270core")
	out := []byte{0x00, 0x00, 0x00, 0x00, byte(len(name))}
	out = append(out, name...)
	return record(QRRPQNames, out...)
}

// buildImplicitParts reports s's dimensions as both the default and the
// alternate partition size; s is whichever screen is currently active,
// and the size of the other screen is not reported.
func buildImplicitParts(s *screen.Screen) []byte {
	return record(QRImplicitParts,
		0x00, 0x00, // reserved
		0x0B, // data length
		0x01, // implicit partition sizes
		0x00, // reserved
		0x00, byte(s.Cols), // default width
		0x00, byte(s.Rows), // default height
		0x00, byte(s.Cols), // alternate width
		0x00, byte(s.Rows), // alternate height
	)
}
