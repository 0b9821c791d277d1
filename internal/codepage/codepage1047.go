package codepage

// Codepage1047 implements the IBM CP 1047 code page (Open Systems/POSIX).
//
// CP1047 is CP037 with the square brackets relocated to sit next to the
// parenthesis/pipe characters (0x4A/0x4F/0x5A/0x5F) and the caret and
// not-sign swapped (0x5F/0xB0), matching the layout most TN3270 emulators
// (c3270, x3270, Vista TN3270) expect when they negotiate "United States"
// or code page 1047.
var Codepage1047 *codepage

func init() {
	e2u := cp037E2U
	e2u[0x4A] = 0x5B // [
	e2u[0x4F] = 0x21 // !
	e2u[0x5A] = 0x5D // ]
	e2u[0x5F] = 0x5E // ^
	e2u[0xB0] = 0xAC // ¬
	Codepage1047 = buildCodepage("1047", e2u)
}
