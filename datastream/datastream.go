// Package datastream implements the 3270 outbound data-stream
// interpreter: it parses commands, orders, and structured fields from a
// single outbound record (as delivered by the telnet/TN3270E framer),
// mutates a screen buffer, and returns zero or one queued inbound reply
// frames.
//
// Parsing is a single pass with a cursor over the record rather than a
// tokenize-then-interpret split: each order handler consumes exactly
// the parameter bytes it needs, keeping order handling a simple switch
// dispatched inline with the cursor.
package datastream

import (
	"fmt"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/inbound"
	"github.com/mwilson3270/tn3270core/screen"
)

// Command bytes, both Telnet and CCW encodings.
const (
	CmdW       = 0xF1
	CmdWCCW    = 0x01
	CmdEW      = 0xF5
	CmdEWCCW   = 0x05
	CmdEWA     = 0x7E
	CmdEWACCW  = 0x0D
	CmdRB      = 0xF2
	CmdRBCCW   = 0x02
	CmdRM      = 0xF6
	CmdRMCCW   = 0x06
	CmdEAU     = 0x6F
	CmdEAUCCW  = 0x0F
	CmdWSF     = 0xF3
	CmdWSFCCW  = 0x11
)

// Orders.
const (
	OrderSF  = 0x1D
	OrderSFE = 0x29
	OrderSBA = 0x11
	OrderSA  = 0x28
	OrderMF  = 0x2C
	OrderIC  = 0x13
	OrderPT  = 0x05
	OrderRA  = 0x3C
	OrderEUA = 0x12
	OrderGE  = 0x08
)

// WSF subcommands and structured-field reply ids.
const (
	WSFReset          = 0x00
	WSFReadPartition  = 0x01
	WSFOutbound3270DS = 0x40

	SFQueryReply = 0x81
)

const ebcdicNull = 0x00

// Errors the interpreter can signal. All are recoverable: the caller
// continues the session; only the current record's remaining mutations
// are affected.
var (
	ErrUnknownCommand = fmt.Errorf("datastream: unknown command")
	ErrUnknownOrder   = fmt.Errorf("datastream: unknown order")
	ErrTruncated      = fmt.Errorf("datastream: truncated record")
)

// ScreenHost is the narrow contract the interpreter needs from the
// session controller that owns the primary/alternate screen pair: which
// screen is currently active, and how to switch to the alternate one
// for EWA.
type ScreenHost interface {
	Active() *screen.Screen
	SelectAlternate(alternate bool)
}

// Hooks are the side effects the interpreter requests of its host but
// does not itself perform (the WCC reset-keyboard and alarm bits).
// Either may be nil.
type Hooks struct {
	UnlockKeyboard func()
	SoundAlarm     func()
}

// Interpreter mutates a ScreenHost's active screen.Screen in response
// to outbound records and returns inbound replies for RM/RB and Query
// Reply structured fields.
type Interpreter struct {
	Host  ScreenHost
	Hooks Hooks

	lastWasTab   bool // true immediately after a PT order, for wrap detection
	lastWasMove  bool // true after WRITE/SBA, for the PT tab-stop rule
	queryReplier QueryReplier
}

// QueryReplier renders the Read Partition Query Reply bundle; the
// default is BuildQueryReply, but tests may substitute a stub.
type QueryReplier func(s *screen.Screen) []byte

// New creates an Interpreter wired to host, using the default Query Reply
// bundle builder.
func New(host ScreenHost, hooks Hooks) *Interpreter {
	return &Interpreter{Host: host, Hooks: hooks, queryReplier: BuildQueryReply}
}

// buf is a cursor over a single outbound record.
type buf struct {
	data []byte
	pos  int
}

func (b *buf) byte() (byte, bool) {
	if b.pos >= len(b.data) {
		return 0, false
	}
	return b.data[b.pos], true
}

func (b *buf) next() bool {
	b.pos++
	return b.pos < len(b.data)
}

func (b *buf) more() bool { return b.pos < len(b.data) }

// ProcessRecord parses one complete outbound record. It returns a
// single inbound reply frame if the record produced one (RM, RB, or a
// Read Partition Query Reply), or nil if none.
func (in *Interpreter) ProcessRecord(record []byte) ([]byte, error) {
	if len(record) == 0 {
		return nil, ErrTruncated
	}
	s := in.Host.Active()
	s.Sticky.Reset()

	b := &buf{data: record}
	cmd, _ := b.byte()

	switch cmd {
	case CmdEW, CmdEWCCW:
		s.Clear()
		if !b.next() {
			return nil, ErrTruncated
		}
		in.processWCC(s, b)
		b.next()
		return in.processOrdersToEnd(s, b)

	case CmdEWA, CmdEWACCW:
		in.Host.SelectAlternate(true)
		s = in.Host.Active()
		s.Clear()
		if !b.next() {
			return nil, ErrTruncated
		}
		in.processWCC(s, b)
		b.next()
		return in.processOrdersToEnd(s, b)

	case CmdW, CmdWCCW:
		if !b.next() {
			return nil, ErrTruncated
		}
		in.processWCC(s, b)
		b.next()
		return in.processOrdersToEnd(s, b)

	case CmdWSF, CmdWSFCCW:
		if !b.next() {
			return nil, ErrTruncated
		}
		return in.processWSFSequence(s, b)

	case CmdRM, CmdRMCCW:
		return inbound.BuildModifiedFieldRead(s, aid.AID(s.LastAID)), nil

	case CmdRB, CmdRBCCW:
		return inbound.BuildReadBuffer(s, aid.AID(s.LastAID)), nil

	case CmdEAU, CmdEAUCCW:
		s.EraseUnprotected(0, s.N())
		return nil, nil

	default:
		return nil, ErrUnknownCommand
	}
}

// processOrdersToEnd processes orders sequentially from b's current
// position through the end of the record, aborting the remainder (but
// keeping mutations already applied) on an unknown order.
func (in *Interpreter) processOrdersToEnd(s *screen.Screen, b *buf) ([]byte, error) {
	for b.more() {
		if err := in.processOneOrder(s, b); err != nil {
			if err == ErrUnknownOrder {
				return nil, nil
			}
			return nil, err
		}
		b.next()
	}
	return nil, nil
}

// processWCC parses the Write Control Character byte at b's current
// position: reset-MDT bit 0, reset-keyboard bit 1, alarm bit 2.
func (in *Interpreter) processWCC(s *screen.Screen, b *buf) {
	in.lastWasMove = true
	in.lastWasTab = false
	wcc, ok := b.byte()
	if !ok {
		return
	}
	resetMDT := wcc&0x01 != 0
	resetKB := wcc&0x02 != 0
	alarm := wcc&0x04 != 0

	if resetMDT {
		for _, idx := range s.ModifiedFields() {
			s.SetMDT(idx, false)
		}
	}
	if resetKB && in.Hooks.UnlockKeyboard != nil {
		in.Hooks.UnlockKeyboard()
	}
	if alarm && in.Hooks.SoundAlarm != nil {
		in.Hooks.SoundAlarm()
	}
}

// processOneOrder dispatches the order (or data byte) at b's current
// cursor position, advancing b past any order-specific parameter bytes
// but leaving the final consumed byte at b's position (the caller's
// loop calls b.next() afterward).
func (in *Interpreter) processOneOrder(s *screen.Screen, b *buf) error {
	code, _ := b.byte()
	wasTab := in.lastWasTab
	in.lastWasTab = false

	switch code {
	case OrderSF:
		if !b.next() {
			return ErrTruncated
		}
		attr, _ := b.byte()
		s.SetField(s.CursorPos, attr, false)
		s.CursorPos = (s.CursorPos + 1) % s.N()
		in.lastWasMove = false

	case OrderSFE:
		if !b.next() {
			return ErrTruncated
		}
		count, _ := b.byte()
		var attr byte
		type extPair struct{ typ, val byte }
		var pairs []extPair
		for i := 0; i < int(count); i++ {
			if !b.next() {
				return ErrTruncated
			}
			typ, _ := b.byte()
			if !b.next() {
				return ErrTruncated
			}
			val, _ := b.byte()
			if typ == ExtType3270 {
				attr = val
				continue
			}
			pairs = append(pairs, extPair{typ, val})
		}
		// SetField resets the cell (default colour, no highlight), so
		// the base attribute byte must land before the extended pairs
		// are applied on top of it.
		s.SetField(s.CursorPos, attr, true)
		for _, p := range pairs {
			switch p.typ {
			case ExtTypeFG:
				s.SetExtendedColour(s.CursorPos, colourFromWire(p.val))
			case ExtTypeHighlight:
				s.SetExtendedHighlight(s.CursorPos, highlightFromWire(p.val))
			}
		}
		s.CursorPos = (s.CursorPos + 1) % s.N()
		in.lastWasMove = false

	case OrderSBA:
		if !b.next() {
			return ErrTruncated
		}
		b1, _ := b.byte()
		if !b.next() {
			return ErrTruncated
		}
		b2, _ := b.byte()
		s.CursorPos = clampAddr(screen.DecodeAddr(b1, b2, s.N()), s.N())
		in.lastWasMove = true

	case OrderSA:
		if !b.next() {
			return ErrTruncated
		}
		typ, _ := b.byte()
		if !b.next() {
			return ErrTruncated
		}
		val, _ := b.byte()
		in.applySA(s, typ, val)
		in.lastWasMove = false

	case OrderIC:
		s.InsertCursor = s.CursorPos
		in.lastWasMove = false

	case OrderPT:
		var next int
		if wasTab {
			next = s.FindNextUnprotected(s.CursorPos)
		} else if in.lastWasMove {
			// The tab stops at end of screen rather than wrapping
			// when the previous order was a WRITE/SBA.
			next = findNextUnprotectedNoWrap(s, s.CursorPos)
		} else {
			next = s.FindNextUnprotected(s.CursorPos)
		}
		s.CursorPos = next
		in.lastWasTab = true
		in.lastWasMove = false

	case OrderRA:
		if !b.next() {
			return ErrTruncated
		}
		b1, _ := b.byte()
		if !b.next() {
			return ErrTruncated
		}
		b2, _ := b.byte()
		end := clampAddr(screen.DecodeAddr(b1, b2, s.N()), s.N())
		if !b.next() {
			return ErrTruncated
		}
		ch, _ := b.byte()
		graphic := false
		if ch == ebcdicGE {
			if !b.next() {
				return ErrTruncated
			}
			ch, _ = b.byte()
			graphic = true
		}
		fillRepeatToAddress(s, end, ch, graphic)
		in.lastWasMove = false

	case OrderEUA:
		if !b.next() {
			return ErrTruncated
		}
		b1, _ := b.byte()
		if !b.next() {
			return ErrTruncated
		}
		b2, _ := b.byte()
		end := clampAddr(screen.DecodeAddr(b1, b2, s.N()), s.N())
		s.EraseUnprotected(s.CursorPos, end)
		in.lastWasMove = false

	case OrderGE:
		if !b.next() {
			return ErrTruncated
		}
		ch, _ := b.byte()
		placeGraphic(s, ch)
		in.lastWasMove = false

	case OrderMF:
		if !b.next() {
			return ErrTruncated
		}
		count, _ := b.byte()
		for i := 0; i < int(count); i++ {
			if !b.next() {
				return ErrTruncated
			}
			b.next()
		}
		in.lastWasMove = false

	default:
		s.SetChar(s.CursorPos, code)
		s.CursorPos = (s.CursorPos + 1) % s.N()
		in.lastWasMove = false
	}
	return nil
}

const ebcdicGE = 0x08

// appendEscaped appends b to an inbound reply, doubling a literal 0xFF;
// the telnet framer transmits reply payloads verbatim, so escaping
// happens here, where the bytes are generated.
func appendEscaped(out []byte, b byte) []byte {
	if b == 0xFF {
		out = append(out, 0xFF)
	}
	return append(out, b)
}

func clampAddr(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos >= n {
		return n - 1
	}
	return pos
}

// fillRepeatToAddress implements RA, wrap-then-modulo: if end < start,
// wrap by adding n, then fill every position i%n for i from start to
// end.
func fillRepeatToAddress(s *screen.Screen, end int, ch byte, graphic bool) {
	n := s.N()
	start := s.CursorPos
	if end < start {
		end += n
	}
	for i := start; i < end; i++ {
		idx := i % n
		s.SetChar(idx, ch)
		if graphic {
			s.SetGraphic(idx, true)
		}
	}
	s.CursorPos = end % n
}

// placeGraphic places the next glyph as a graphic-escape character (GE
// order). Screen.SetGraphic records which code page the glyph came from
// for rendering collaborators; the glyph byte itself is still stored
// via SetChar like any other data byte.
func placeGraphic(s *screen.Screen, ch byte) {
	pos := s.CursorPos
	s.SetChar(pos, ch)
	s.SetGraphic(pos, true)
	s.CursorPos = (pos + 1) % s.N()
}

// findNextUnprotectedNoWrap is FindNextUnprotected but stops at the end
// of the screen instead of wrapping back to position 0, the PT rule
// when the previous order was a WRITE or SBA. If no usable unprotected
// field starts in [pos, n), pos is returned unchanged.
func findNextUnprotectedNoWrap(s *screen.Screen, pos int) int {
	n := s.N()
	for i := pos; i < n; i++ {
		// FindNextUnprotected itself wraps, so re-derive the search
		// manually bounded to [pos, n).
		if isUnprotectedInputCell(s, i) {
			return (i + 1) % n
		}
	}
	return pos
}

func isUnprotectedInputCell(s *screen.Screen, idx int) bool {
	c := s.Cell(idx)
	if !c.IsFieldStart() {
		return false
	}
	if c.Protected {
		return false
	}
	next := (idx + 1) % s.N()
	nc := s.Cell(next)
	return !nc.IsFieldStart()
}

// processWSFSequence processes one or more structured fields from a
// WSF command: outer framing is (length-high, length-low, id, payload).
// A structured field whose declared length exceeds the available bytes
// aborts the WSF.
func (in *Interpreter) processWSFSequence(s *screen.Screen, b *buf) ([]byte, error) {
	var reply []byte
	for b.more() {
		hi, ok := b.byte()
		if !ok {
			break
		}
		if !b.next() {
			return reply, ErrTruncated
		}
		lo, _ := b.byte()
		length := int(hi)<<8 | int(lo)
		if !b.next() {
			return reply, ErrTruncated
		}
		id, _ := b.byte()

		payloadLen := length - 3
		if payloadLen < 0 || b.pos+1+payloadLen > len(b.data) {
			return reply, ErrTruncated
		}
		payload := b.data[b.pos+1 : b.pos+1+payloadLen]

		switch id {
		case WSFReset:
			s.Clear()
		case WSFReadPartition:
			reply = append(reply, byte(aid.StructuredField))
			a := screen.EncodeAddr(s.CursorPos, s.N())
			reply = appendEscaped(reply, a[0])
			reply = appendEscaped(reply, a[1])
			for _, qb := range in.queryReplier(s) {
				reply = appendEscaped(reply, qb)
			}
		case WSFOutbound3270DS:
			sub := &buf{data: payload}
			if sub.more() {
				in.processEmbeddedWrite(s, sub)
			}
		}

		b.pos += payloadLen
		if !b.next() {
			break
		}
	}
	return reply, nil
}

// processEmbeddedWrite handles the OUTBOUND3270DS structured field's
// embedded Write-style command and its orders.
func (in *Interpreter) processEmbeddedWrite(s *screen.Screen, b *buf) {
	cmd, _ := b.byte()
	switch cmd {
	case CmdW, CmdWCCW, CmdEW, CmdEWCCW, CmdEWA, CmdEWACCW:
		if cmd == CmdEW || cmd == CmdEWCCW || cmd == CmdEWA || cmd == CmdEWACCW {
			s.Clear()
		}
		if !b.next() {
			return
		}
		in.processWCC(s, b)
		if !b.next() {
			return
		}
	}
	for b.more() {
		in.processOneOrder(s, b)
		if !b.next() {
			break
		}
	}
}

// applySA updates the sticky character-attribute record.
func (in *Interpreter) applySA(s *screen.Screen, typ, val byte) {
	switch typ {
	case ExtTypeFG:
		if val == ExtDefault {
			s.Sticky.ColourSet = false
		} else {
			s.Sticky.ColourSet = true
			s.Sticky.Colour = colourFromWire(val)
		}
	case ExtTypeHighlight:
		if val == HighlightWireDefault {
			s.Sticky.HighlightSet = false
		} else {
			s.Sticky.HighlightSet = true
			s.Sticky.Highlight = highlightFromWire(val)
		}
	case ExtTypeCharSet:
		s.Sticky.CharsetSet = val != ExtDefault
	case ExtTypeTransparent:
		s.Sticky.TransparencySet = val != ExtDefault
	}
}
