// Package aid defines the Attention Identifier byte, the first byte of
// every inbound 3270 data stream record, and its display names.
package aid

// AID identifies which key or action generated an inbound data stream
// record.
type AID byte

const (
	None              AID = 0x60
	Enter             AID = 0x7D
	PF1               AID = 0xF1
	PF2               AID = 0xF2
	PF3               AID = 0xF3
	PF4               AID = 0xF4
	PF5               AID = 0xF5
	PF6               AID = 0xF6
	PF7               AID = 0xF7
	PF8               AID = 0xF8
	PF9               AID = 0xF9
	PF10              AID = 0x7A
	PF11              AID = 0x7B
	PF12              AID = 0x7C
	PF13              AID = 0xC1
	PF14              AID = 0xC2
	PF15              AID = 0xC3
	PF16              AID = 0xC4
	PF17              AID = 0xC5
	PF18              AID = 0xC6
	PF19              AID = 0xC7
	PF20              AID = 0xC8
	PF21              AID = 0xC9
	PF22              AID = 0x4A
	PF23              AID = 0x4B
	PF24              AID = 0x4C
	PA1               AID = 0x6C
	PA2               AID = 0x6E
	PA3               AID = 0x6B
	Clear             AID = 0x6D
	SysReq            AID = 0x88
	StructuredField   AID = 0x88
)

// String returns the conventional short name for an AID byte, or a
// hex-formatted placeholder for one this module does not recognize.
func (a AID) String() string {
	switch a {
	case None:
		return "NoAID"
	case Enter:
		return "Enter"
	case PF1:
		return "PF1"
	case PF2:
		return "PF2"
	case PF3:
		return "PF3"
	case PF4:
		return "PF4"
	case PF5:
		return "PF5"
	case PF6:
		return "PF6"
	case PF7:
		return "PF7"
	case PF8:
		return "PF8"
	case PF9:
		return "PF9"
	case PF10:
		return "PF10"
	case PF11:
		return "PF11"
	case PF12:
		return "PF12"
	case PF13:
		return "PF13"
	case PF14:
		return "PF14"
	case PF15:
		return "PF15"
	case PF16:
		return "PF16"
	case PF17:
		return "PF17"
	case PF18:
		return "PF18"
	case PF19:
		return "PF19"
	case PF20:
		return "PF20"
	case PF21:
		return "PF21"
	case PF22:
		return "PF22"
	case PF23:
		return "PF23"
	case PF24:
		return "PF24"
	case PA1:
		return "PA1"
	case PA2:
		return "PA2"
	case PA3:
		return "PA3"
	case Clear:
		return "Clear"
	case SysReq:
		return "SysReq/StructuredField"
	default:
		return "Unknown"
	}
}

// IsStructuredField reports whether this AID marks a structured-field
// inbound record (0x88 doubles as SysReq and Structured Field; callers
// distinguish the two by the record's own content, not the AID byte).
func (a AID) IsStructuredField() bool {
	return a == StructuredField
}
