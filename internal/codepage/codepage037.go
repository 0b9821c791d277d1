package codepage

// Codepage037 implements the IBM CP 037 code page (US/Canada).
var Codepage037 *codepage

// cp037E2U is the EBCDIC-to-Unicode table for IBM CP 037. Bytes 0x00-0x3F
// and 0x40-0xC0/0xD0/0xE0/0xF0 follow the standard IBM host control-code and
// Latin alphabet layout; the less common accented-letter slots in the
// 0xCA-0xFF range carry the conventional Western-European Latin-1
// assignments.
var cp037E2U = [256]rune{
	/*         x0    x1    x2    x3    x4    x5    x6    x7    x8    x9    xA    xB    xC    xD    xE    xF */
	/* 0x */ 0x00, 0x01, 0x02, 0x03, 0x9C, 0x09, 0x86, 0x7F, 0x97, 0x8D, 0x8E, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	/* 1x */ 0x10, 0x11, 0x12, 0x13, 0x9D, 0x85, 0x08, 0x87, 0x18, 0x19, 0x92, 0x8F, 0x1C, 0x1D, 0x1E, 0x1F,
	/* 2x */ 0x80, 0x81, 0x82, 0x83, 0x84, 0x0A, 0x17, 0x1B, 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x05, 0x06, 0x07,
	/* 3x */ 0x90, 0x91, 0x16, 0x93, 0x94, 0x95, 0x96, 0x04, 0x98, 0x99, 0x9A, 0x9B, 0x14, 0x15, 0x9E, 0x1A,
	/* 4x */ 0x20, 0xA0, 0xE2, 0xE4, 0xE0, 0xE1, 0xE3, 0xE5, 0xE7, 0xF1, 0xA2, 0x2E, 0x3C, 0x28, 0x2B, 0x7C,
	/* 5x */ 0x26, 0xE9, 0xEA, 0xEB, 0xE8, 0xED, 0xEE, 0xEF, 0xEC, 0xDF, 0x21, 0x24, 0x2A, 0x29, 0x3B, 0xAC,
	/* 6x */ 0x2D, 0x2F, 0xC2, 0xC4, 0xC0, 0xC1, 0xC3, 0xC5, 0xC7, 0xD1, 0xA6, 0x2C, 0x25, 0x5F, 0x3E, 0x3F,
	/* 7x */ 0xF8, 0xC9, 0xCA, 0xCB, 0xC8, 0xCD, 0xCE, 0xCF, 0xCC, 0x60, 0x3A, 0x23, 0x40, 0x27, 0x3D, 0x22,
	/* 8x */ 0xD8, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0xAB, 0xBB, 0xF0, 0xFD, 0xFE, 0xB1,
	/* 9x */ 0xB0, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F, 0x70, 0x71, 0x72, 0xAA, 0xBA, 0xE6, 0xB8, 0xC6, 0xA4,
	/* Ax */ 0xB5, 0x7E, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79, 0x7A, 0xA1, 0xBF, 0xD0, 0x5B, 0xDE, 0xAE,
	/* Bx */ 0x5E, 0xA3, 0xA5, 0xB7, 0xA9, 0xA7, 0xB6, 0xBC, 0xBD, 0xBE, 0xA6, 0xA8, 0xB9, 0xB2, 0xB3, 0xD7,
	/* Cx */ 0x7B, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0xAD, 0xF4, 0xF6, 0xF2, 0xF3, 0xF5,
	/* Dx */ 0x7D, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F, 0x50, 0x51, 0x52, 0x152, 0x153, 0xD6, 0xDC, 0xF9, 0xFF,
	/* Ex */ 0x5C, 0xF7, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5A, 0xFB, 0xFC, 0xFA, 0xD4, 0xD2, 0xD3,
	/* Fx */ 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0xD5, 0xD9, 0xDA, 0xDB, 0x178, 0x9F,
}

func init() {
	Codepage037 = buildCodepage("037", cp037E2U)
}

// buildCodepage derives the Unicode-to-EBCDIC reverse tables from an
// EBCDIC-to-Unicode table and wires in the shared graphic-escape (CP310)
// table used by every code page.
func buildCodepage(id string, e2u [256]rune) *codepage {
	u2e := make([]byte, 256)
	for i := range u2e {
		u2e[i] = 0x3F // substitute char, overwritten below where mapped
	}
	highu2e := make(map[rune]byte)
	for i, r := range e2u {
		if int(r) < 256 {
			u2e[r] = byte(i)
		} else {
			highu2e[r] = byte(i)
		}
	}

	table := make([]rune, 256)
	copy(table, e2u[:])

	return &codepage{
		e2u:     table,
		u2e:     u2e,
		highu2e: highu2e,
		esub:    0x3F,
		ge:      0x08,
		ge2u:    cp310ToUnicode,
		u2ge:    unicodeToCP310,
		id:      id,
	}
}
