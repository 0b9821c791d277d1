package keyboard

import (
	"fmt"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/screen"
)

// LockState is the "system lock" keyboard-state machine.
type LockState int

const (
	// Unlocked accepts any key.
	Unlocked LockState = iota
	// SystemLock ("X System") only clears on an explicit Reset. Nothing
	// in this package enters it; the owner of the Keyboard sets Lock.
	SystemLock
	// TerminalWait ("X Clock") is entered by submitting an AID and
	// clears when the host's reply restores the keyboard.
	TerminalWait
)

func (l LockState) String() string {
	switch l {
	case Unlocked:
		return "Unlocked"
	case SystemLock:
		return "SystemLock"
	case TerminalWait:
		return "TerminalWait"
	default:
		return "Unknown"
	}
}

// ErrLocked is returned by ProcessKey when a key is discarded because
// the keyboard is locked and the function isn't in the always-allowed
// set.
var ErrLocked = fmt.Errorf("keyboard: locked")

// ErrUnknownFunction is returned by ProcessKey when seq resolves to a
// name the registry doesn't recognize.
var ErrUnknownFunction = fmt.Errorf("keyboard: unknown function")

// Host is the narrow contract Keyboard needs from the session
// controller: the active screen, a code page for typed-character
// translation, and a way to submit a completed AID record.
type Host interface {
	Screen() *screen.Screen
	Codepage() screen.Codepage
	SubmitAID(a aid.AID, shortRead bool) error
}

// Keyboard translates theme-resolved function names into screen
// mutations or AID submissions, enforcing the lock discipline.
type Keyboard struct {
	Host   Host
	Theme  Theme
	Lock   LockState
	Insert bool
}

// New creates a Keyboard bound to host, starting Unlocked with theme.
func New(host Host, theme Theme) *Keyboard {
	return &Keyboard{Host: host, Theme: theme, Lock: Unlocked}
}

// TypeChar handles a printable keystroke: translate r through the
// host's code page and insert/overtype it at the cursor. Discarded
// while locked, same as any other key.
func (k *Keyboard) TypeChar(r rune) error {
	if !k.allowedWhileLocked("") {
		return ErrLocked
	}
	s := k.Host.Screen()
	enc := k.Host.Codepage().Encode(string(r))
	var b byte
	if len(enc) > 0 {
		b = enc[0]
	}
	return s.InsertChar(b, k.Insert)
}

// ProcessKey resolves seq through the theme and dispatches to the
// named function: key event -> theme lookup -> function name -> core
// method. Returns ErrUnknownFunction if seq isn't bound, ErrLocked if
// the keyboard discards it.
func (k *Keyboard) ProcessKey(seq string) error {
	name, ok := k.Theme.Resolve(seq)
	if !ok {
		return ErrUnknownFunction
	}
	return k.Dispatch(name)
}

// Dispatch runs the named function directly, bypassing theme lookup;
// callers driving menus, toolbars, or scripts use this instead of
// ProcessKey.
func (k *Keyboard) Dispatch(name string) error {
	fn, ok := Lookup(name)
	if !ok {
		return ErrUnknownFunction
	}
	if !k.allowedWhileLocked(name) {
		return ErrLocked
	}

	if fn.AID != noAID {
		return k.submitAID(fn.AID, fn.ShortRead)
	}

	switch name {
	case "Reset":
		return k.reset()
	case "Up":
		return k.moveCursor(-k.cols())
	case "Down":
		return k.moveCursor(k.cols())
	case "Left":
		return k.moveCursor(-1)
	case "Right":
		return k.moveCursor(1)
	case "Backspace":
		return k.backspace()
	case "Tab":
		return k.tab()
	case "Backtab":
		return k.backtab()
	case "NewLine":
		return k.newline()
	case "Home":
		return k.home()
	case "EndLine":
		return k.endline()
	case "EraseEOF":
		k.Host.Screen().EraseEOF()
		return nil
	case "Insert":
		k.Insert = !k.Insert
		return nil
	case "Delete":
		return k.Host.Screen().DeleteChar()
	case "Attn":
		// Attn is a TN3270 Attention signal at the connection layer,
		// not a data-stream AID. Dispatch submits no AID and changes
		// no screen state for it; no Attention signal is sent.
		return nil
	case "ToggleRuler", "Copy", "Paste", "Info", "Fields", "DumpScreen":
		// Rendering/clipboard/status concerns outside this module's
		// scope; callers observing Dispatch's return value implement
		// these themselves.
		return nil
	default:
		return ErrUnknownFunction
	}
}

// allowedWhileLocked reports whether name (or, for typed characters,
// "") may run given k.Lock.
func (k *Keyboard) allowedWhileLocked(name string) bool {
	if k.Lock == Unlocked {
		return true
	}
	return alwaysAllowedLocked[name]
}

func (k *Keyboard) submitAID(a aid.AID, shortRead bool) error {
	if err := k.Host.SubmitAID(a, shortRead); err != nil {
		return err
	}
	if k.Lock == Unlocked {
		k.Lock = TerminalWait
	}
	return nil
}

// Unlock transitions TerminalWait -> Unlocked. Called by the session
// controller when the WCC reset-keyboard bit fires.
func (k *Keyboard) Unlock() {
	if k.Lock == TerminalWait {
		k.Lock = Unlocked
	}
}

func (k *Keyboard) reset() error {
	// Ignored while still waiting on the host; only the host's
	// keyboard-restore releases TerminalWait.
	if k.Lock != TerminalWait {
		k.Lock = Unlocked
	}
	return nil
}

func (k *Keyboard) cols() int {
	s := k.Host.Screen()
	return s.Cols
}

func (k *Keyboard) moveCursor(delta int) error {
	s := k.Host.Screen()
	n := s.N()
	pos := s.CursorPos + delta
	for pos < 0 {
		pos += n
	}
	s.CursorPos = pos % n
	return nil
}

func (k *Keyboard) backspace() error {
	s := k.Host.Screen()
	if err := k.moveCursor(-1); err != nil {
		return err
	}
	return s.DeleteChar()
}

func (k *Keyboard) tab() error {
	s := k.Host.Screen()
	s.CursorPos = s.FindNextUnprotected(s.CursorPos)
	return nil
}

func (k *Keyboard) backtab() error {
	s := k.Host.Screen()
	s.CursorPos = s.FindPrevUnprotected(s.CursorPos)
	return nil
}

func (k *Keyboard) home() error {
	s := k.Host.Screen()
	row := s.CursorPos / s.Cols
	s.CursorPos = row * s.Cols
	return nil
}

func (k *Keyboard) endline() error {
	s := k.Host.Screen()
	row := s.CursorPos / s.Cols
	s.CursorPos = row*s.Cols + (s.Cols - 1)
	return nil
}

func (k *Keyboard) newline() error {
	s := k.Host.Screen()
	row := s.CursorPos / s.Cols
	nextRowStart := ((row + 1) * s.Cols) % s.N()
	s.CursorPos = s.FindNextUnprotected(nextRowStart - 1)
	return nil
}
