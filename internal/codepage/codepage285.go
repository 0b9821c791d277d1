package codepage

// Codepage285 implements the IBM CP 285 code page (United Kingdom).
//
// CP285 is CP037 with the pound sterling sign placed at 0x5B, where US
// code pages place the dollar sign, and the dollar sign moved to 0x4A
// (the CP037 cent-sign position). The CP037 pound sign at 0xB1 is left
// as it is.
var Codepage285 *codepage

func init() {
	e2u := cp037E2U
	e2u[0x4A] = 0x24 // $
	e2u[0x5B] = 0xA3 // £
	Codepage285 = buildCodepage("285", e2u)
}
