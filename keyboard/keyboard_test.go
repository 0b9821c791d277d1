package keyboard

import (
	"testing"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/screen"
)

type identityCodepage struct{}

func (identityCodepage) Decode(b []byte) string { return string(b) }
func (identityCodepage) Encode(s string) []byte {
	out := make([]byte, len(s))
	for i := range s {
		out[i] = s[i]
	}
	return out
}

type fakeHost struct {
	s         *screen.Screen
	submitted []aid.AID
	shortRead bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{s: screen.New(24, 80)}
}

func (h *fakeHost) Screen() *screen.Screen          { return h.s }
func (h *fakeHost) Codepage() screen.Codepage       { return identityCodepage{} }
func (h *fakeHost) SubmitAID(a aid.AID, short bool) error {
	h.submitted = append(h.submitted, a)
	h.shortRead = short
	return nil
}

func TestEnterLocksKeyboard(t *testing.T) {
	host := newFakeHost()
	kb := New(host, DefaultTheme())

	if err := kb.Dispatch("Enter"); err != nil {
		t.Fatalf("Dispatch(Enter): %v", err)
	}
	if kb.Lock != TerminalWait {
		t.Fatalf("lock = %v, want TerminalWait", kb.Lock)
	}
	if len(host.submitted) != 1 || host.submitted[0] != aid.Enter {
		t.Fatalf("submitted = %v, want [Enter]", host.submitted)
	}
}

func TestLockedDiscardsMostKeys(t *testing.T) {
	host := newFakeHost()
	kb := New(host, DefaultTheme())
	kb.Lock = TerminalWait

	if err := kb.Dispatch("Up"); err != ErrLocked {
		t.Fatalf("Dispatch(Up) while locked = %v, want ErrLocked", err)
	}
	if err := kb.TypeChar('A'); err != ErrLocked {
		t.Fatalf("TypeChar while locked = %v, want ErrLocked", err)
	}
	// Always-allowed functions still run.
	if err := kb.Dispatch("Info"); err != nil {
		t.Fatalf("Dispatch(Info) while locked: %v", err)
	}
}

func TestResetIgnoredMidTerminalWait(t *testing.T) {
	host := newFakeHost()
	kb := New(host, DefaultTheme())
	kb.Lock = TerminalWait

	if err := kb.Dispatch("Reset"); err != nil {
		t.Fatalf("Dispatch(Reset): %v", err)
	}
	if kb.Lock != TerminalWait {
		t.Fatalf("lock = %v, want still TerminalWait (reset ignored mid-wait)", kb.Lock)
	}

	kb.Lock = SystemLock
	if err := kb.Dispatch("Reset"); err != nil {
		t.Fatalf("Dispatch(Reset): %v", err)
	}
	if kb.Lock != Unlocked {
		t.Fatalf("lock = %v, want Unlocked after Reset from SystemLock", kb.Lock)
	}
}

func TestUnlockFromCompletion(t *testing.T) {
	host := newFakeHost()
	kb := New(host, DefaultTheme())
	kb.Lock = TerminalWait
	kb.Unlock()
	if kb.Lock != Unlocked {
		t.Fatalf("lock = %v, want Unlocked", kb.Lock)
	}
}

func TestTypeCharInsertsAtCursor(t *testing.T) {
	host := newFakeHost()
	kb := New(host, DefaultTheme())
	s := host.Screen()
	s.SetField(0, screen.FieldAttrByte(false, false, true, false, false, false), false)
	s.CursorPos = 1

	if err := kb.TypeChar('A'); err != nil {
		t.Fatalf("TypeChar: %v", err)
	}
	if got := s.Cell(1).Ebcdic; got != 'A' {
		t.Fatalf("cell 1 = %02x, want 'A'", got)
	}
	if s.CursorPos != 2 {
		t.Fatalf("cursor = %d, want 2", s.CursorPos)
	}
}

func TestLCtrlRCtrlDistinctBindings(t *testing.T) {
	theme := DefaultTheme()
	l, ok := theme.Resolve(PrefixLCtrl + "F1")
	if !ok || l != "F1" {
		t.Fatalf("LCtrl+F1 = %q, want F1", l)
	}
	r, ok := theme.Resolve(PrefixRCtrl + "F1")
	if !ok || r != "F13" {
		t.Fatalf("RCtrl+F1 = %q, want F13", r)
	}
}
