// Package telnet implements the Telnet / TN3270E option-negotiation and
// record-framing state machine: a byte-at-a-time automaton that escapes
// IAC, negotiates BINARY/EOR/TTYPE/TN3270E, assembles records up to IAC
// EOR, and strips/prepends the optional 5-byte TN3270E header.
package telnet

import (
	"fmt"
)

// Telnet protocol bytes.
const (
	IAC  = 0xFF
	DONT = 0xFE
	DO   = 0xFD
	WONT = 0xFC
	WILL = 0xFB
	SB   = 0xFA
	SE   = 0xF0
	EOR  = 0xEF

	OptBinary  = 0x00
	OptTTYPE   = 0x18
	OptEOR     = 0x19
	OptTN3270E = 0x28

	TelQualIs   = 0x00
	TelQualSend = 0x01

	TN3270EAssociate  = 0x00
	TN3270EConnect    = 0x01
	TN3270EDeviceType = 0x02
	TN3270EFunctions  = 0x03
	TN3270EIs         = 0x04
	TN3270ERequest    = 0x05
	TN3270EResponses  = 0x06
	TN3270ESend       = 0x07

	// tn3270DataType3270Data is the TN3270E header's data_type field
	// value this core always uses: 3270_DATA.
	tn3270DataType3270Data = 0x00
)

// State names the framer's current position in the negotiation/framing
// automaton. Exported so tests, logging, and reconnect logic can
// inspect it directly; the intermixing of option negotiation with data
// bytes on one channel makes the current state part of the observable
// contract.
type State int

const (
	StateData State = iota
	StateIAC
	StateDO
	StateDONT
	StateWILL
	StateWONT
	StateSB
	StateSBIAC
)

// EncryptionState reports the TLS posture of the underlying connection.
type EncryptionState int

const (
	Unencrypted EncryptionState = iota
	SemiEncrypted
	Encrypted
)

// Model names a terminal model for TTYPE/DEVICE_TYPE negotiation.
type Model int

const (
	Model2 Model = iota
	Model3
	Model4
	Model5
	ModelDynamic
)

// terminalTypes is the fixed terminal-type string table TTYPE/DEVICE_TYPE
// negotiation selects from, keyed by Model.
var terminalTypes = map[Model]string{
	Model2:       "IBM-3278-2",
	Model3:       "IBM-3278-3",
	Model4:       "IBM-3278-4",
	Model5:       "IBM-3278-5",
	ModelDynamic: "IBM-DYNAMIC",
}

// Writer is the narrow contract the framer needs to send bytes back to
// the host; satisfied by net.Conn and tls.Conn directly.
type Writer interface {
	Write([]byte) (int, error)
}

// Framer is a cooperative, byte-at-a-time state machine driven by
// Feed, single-threaded on the network task.
type Framer struct {
	Model  Model
	LUName string

	out Writer

	state   State
	record  []byte
	sbBuf   []byte
	nextIAC byte // which telnet command the IAC byte introduced (DO/DONT/WILL/WONT)

	TN3270E     bool
	Binary      bool
	EORNeg      bool
	Encryption  EncryptionState

	// OnRecord is called with a complete, TN3270E-header-stripped
	// outbound record whenever IAC EOR completes one.
	OnRecord func(record []byte)
}

// New creates a Framer that writes negotiation replies and outbound
// traffic to w.
func New(w Writer, model Model, luName string) *Framer {
	return &Framer{out: w, Model: model, LUName: luName, state: StateData}
}

// State returns the framer's current automaton state.
func (f *Framer) State() State { return f.state }

// Feed processes one incoming byte from the host. Suspension only
// happens at the network-read call site above Feed; Feed itself never
// blocks.
func (f *Framer) Feed(b byte) error {
	switch f.state {
	case StateData:
		if b == IAC {
			f.state = StateIAC
			return nil
		}
		f.record = append(f.record, b)

	case StateIAC:
		switch b {
		case IAC:
			f.record = append(f.record, IAC)
			f.state = StateData
		case DO:
			f.state = StateDO
		case DONT:
			f.state = StateDONT
		case WILL:
			f.state = StateWILL
		case WONT:
			f.state = StateWONT
		case SB:
			f.sbBuf = f.sbBuf[:0]
			f.state = StateSB
		case SE:
			// SE with no preceding SB: malformed, resync to DATA.
			f.state = StateData
		case EOR:
			f.deliverRecord()
			f.state = StateData
		default:
			f.state = StateData
		}

	case StateDO:
		if err := f.handleDO(b); err != nil {
			return err
		}
		f.state = StateData

	case StateDONT:
		f.handleDONT(b)
		f.state = StateData

	case StateWILL:
		if err := f.handleWILL(b); err != nil {
			return err
		}
		f.state = StateData

	case StateWONT:
		f.state = StateData

	case StateSB:
		if b == IAC {
			f.state = StateSBIAC
		} else {
			f.sbBuf = append(f.sbBuf, b)
		}

	case StateSBIAC:
		switch b {
		case IAC:
			f.sbBuf = append(f.sbBuf, IAC)
			f.state = StateSB
		case SE:
			f.processSubnegotiation()
			f.sbBuf = f.sbBuf[:0]
			f.state = StateData
		default:
			f.state = StateData
		}
	}
	return nil
}

// deliverRecord strips the TN3270E header (if active) and hands the
// accumulated record to OnRecord.
func (f *Framer) deliverRecord() {
	rec := f.record
	f.record = nil
	if f.TN3270E && len(rec) >= 5 {
		rec = rec[5:]
	}
	if f.OnRecord != nil {
		f.OnRecord(rec)
	}
}

// handleDO replies to an IAC DO <opt> request: TTYPE/BINARY/EOR/
// TN3270E -> WILL, anything else -> WONT.
func (f *Framer) handleDO(opt byte) error {
	switch opt {
	case OptTN3270E:
		f.TN3270E = true
		return f.reply(IAC, WILL, opt)
	case OptTTYPE:
		return f.reply(IAC, WILL, opt)
	case OptBinary:
		f.Binary = true
		return f.reply(IAC, WILL, opt)
	case OptEOR:
		f.EORNeg = true
		return f.reply(IAC, WILL, opt)
	default:
		return f.reply(IAC, WONT, opt)
	}
}

func (f *Framer) handleDONT(opt byte) {
	if opt == OptTN3270E {
		f.TN3270E = false
	}
}

// handleWILL replies to an IAC WILL <opt> offer: BINARY/EOR -> DO,
// anything else -> DONT.
func (f *Framer) handleWILL(opt byte) error {
	switch opt {
	case OptBinary:
		f.Binary = true
		return f.reply(IAC, DO, opt)
	case OptEOR:
		f.EORNeg = true
		return f.reply(IAC, DO, opt)
	default:
		return f.reply(IAC, DONT, opt)
	}
}

func (f *Framer) reply(bytes ...byte) error {
	_, err := f.out.Write(bytes)
	return err
}

// processSubnegotiation dispatches a completed SB ... IAC SE buffer.
func (f *Framer) processSubnegotiation() error {
	if len(f.sbBuf) == 0 {
		return nil
	}
	switch f.sbBuf[0] {
	case OptTTYPE:
		if len(f.sbBuf) >= 2 && f.sbBuf[1] == TelQualSend {
			return f.replyTTYPE()
		}
	case OptTN3270E:
		return f.processTN3270ESub()
	}
	return nil
}

func (f *Framer) replyTTYPE() error {
	name := terminalTypes[f.Model]
	if name == "" {
		name = terminalTypes[ModelDynamic]
	}
	msg := []byte{IAC, SB, OptTTYPE, TelQualIs}
	msg = append(msg, []byte(name)...)
	if f.LUName != "" {
		msg = append(msg, '@')
		msg = append(msg, []byte(f.LUName)...)
	}
	msg = append(msg, IAC, SE)
	_, err := f.out.Write(msg)
	return err
}

// processTN3270ESub handles the DEVICE_TYPE and FUNCTIONS exchange:
// SEND DEVICE_TYPE triggers a DEVICE_TYPE REQUEST followed by an empty
// FUNCTIONS REQUEST; a FUNCTIONS REQUEST from the host is echoed back
// as FUNCTIONS IS. This core performs no SCS/response processing, so it
// requests no extended functions for itself and mirrors whatever the
// host asked for.
func (f *Framer) processTN3270ESub() error {
	b := f.sbBuf
	if len(b) < 3 {
		return nil
	}
	switch {
	case b[1] == TN3270ESend && b[2] == TN3270EDeviceType:
		name := terminalTypes[f.Model]
		if name == "" {
			name = terminalTypes[ModelDynamic]
		}
		msg := []byte{IAC, SB, OptTN3270E, TN3270EDeviceType, TN3270ERequest}
		msg = append(msg, []byte(name)...)
		msg = append(msg, IAC, SE)
		if _, err := f.out.Write(msg); err != nil {
			return err
		}
		return f.reply(IAC, SB, OptTN3270E, TN3270EFunctions, TN3270ERequest, IAC, SE)

	case b[1] == TN3270EDeviceType && b[2] == TN3270EIs:
		// Accept; device-name (if present) follows at b[3:].
		return nil

	case b[1] == TN3270EFunctions && b[2] == TN3270ERequest:
		msg := []byte{IAC, SB, OptTN3270E, TN3270EFunctions, TN3270EIs}
		msg = append(msg, b[3:]...)
		msg = append(msg, IAC, SE)
		_, err := f.out.Write(msg)
		return err

	case b[1] == TN3270EFunctions && b[2] == TN3270EIs:
		return nil
	}
	return nil
}

// SendRecord writes an inbound (client->host) record: the 5-byte
// TN3270E header (if negotiated), the payload verbatim, then IAC EOR.
// The payload must already carry its IAC escaping — the inbound builder
// doubles every literal 0xFF as it serialises, and doubling again here
// would corrupt the frame.
func (f *Framer) SendRecord(payload []byte) error {
	var out []byte
	if f.TN3270E {
		out = append(out, tn3270DataType3270Data, 0, 0, 0, 0)
	}
	out = append(out, payload...)
	out = append(out, IAC, EOR)
	_, err := f.out.Write(out)
	return err
}

func (f *Framer) String() string {
	return fmt.Sprintf("telnet.Framer{state=%d tn3270e=%v}", f.state, f.TN3270E)
}
