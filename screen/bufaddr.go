package screen

// addrCodes are the 64 printable EBCDIC bytes each 6-bit half of a 12-bit
// buffer address is looked up through on the wire (figure D-1 of
// GA23-0059).
var addrCodes = []byte{
	0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4,
	0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
	0x61, 0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c,
	0x6d, 0x6e, 0x6f, 0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
	0xf9, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
}

// addrDecodes is the inverse of addrCodes: wire byte -> 6-bit value. Bytes
// that never appear in addrCodes decode to 0xFF as a sentinel.
var addrDecodes [256]byte

func init() {
	for i := range addrDecodes {
		addrDecodes[i] = 0xFF
	}
	for v, b := range addrCodes {
		addrDecodes[b] = byte(v)
	}
}

// EncodeAddr encodes a buffer address for a screen of size n cells:
// 12-bit for screens under 4096 cells, 14-bit under 16384, 16-bit
// big-endian beyond that.
func EncodeAddr(pos, n int) [2]byte {
	switch {
	case n < 4096:
		hi := (pos >> 6) & 0x3F
		lo := pos & 0x3F
		return [2]byte{addrCodes[hi], addrCodes[lo]}
	case n < 16384:
		return [2]byte{byte((pos >> 8) & 0x3F), byte(pos & 0xFF)}
	default:
		return [2]byte{byte((pos >> 8) & 0xFF), byte(pos & 0xFF)}
	}
}

// DecodeAddr decodes a buffer address received from the host. For screens
// under 16384 cells the top two bits of b1 self-identify the scheme:
// 0b11 or 0b01 select the 12-bit table lookup, 0b00 selects the 14-bit
// direct form.
// Screens of 16384 cells or more use straight 16-bit big-endian and do not
// reserve any bits for self-identification, so the caller's screen size is
// needed to pick that branch.
func DecodeAddr(b1, b2 byte, n int) int {
	if n >= 16384 {
		return int(b1)<<8 | int(b2)
	}
	switch (b1 >> 6) & 0x3 {
	case 0x3, 0x1:
		hi := addrDecodes[b1]
		lo := addrDecodes[b2]
		return int(hi)<<6 | int(lo)
	case 0x0:
		return int(b1&0x3F)<<8 | int(b2)
	default: // 0b10, reserved
		return 0
	}
}
