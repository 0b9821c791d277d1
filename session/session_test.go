package session

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/keyboard"
	"github.com/mwilson3270/tn3270core/telnet"
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

func TestSubmitAIDWithoutConnectionErrors(t *testing.T) {
	c := New(24, 80, 32, 80, identityCodepage{}, keyboard.DefaultTheme(), nil)
	if err := c.SubmitAID(aid.Enter, false); err == nil {
		t.Fatalf("expected error submitting AID with no connection")
	}
}

func TestSubmitAIDTransmitsOverFramer(t *testing.T) {
	c := New(24, 80, 32, 80, identityCodepage{}, keyboard.DefaultTheme(), nil)

	client, serverSide := net.Pipe()
	defer client.Close()
	defer serverSide.Close()

	c.mu.Lock()
	c.conn = client
	c.framer = telnet.New(client, telnet.Model2, "")
	c.mu.Unlock()

	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := serverSide.Read(buf)
		done <- buf[:n]
	}()

	if err := c.Keyboard().Dispatch("Enter"); err != nil {
		t.Fatalf("Dispatch(Enter): %v", err)
	}

	select {
	case got := <-done:
		if len(got) < 2 || got[0] != byte(aid.Enter) {
			t.Fatalf("record = %x, want AID Enter prefix", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for submitted record")
	}

	if c.Status().Lock != keyboard.TerminalWait {
		t.Fatalf("status lock = %v, want TerminalWait", c.Status().Lock)
	}
}

// TestSubmitAIDEscapes0xFFOnce drives the composed SubmitAID ->
// SendRecord pipeline on a 4096-cell screen whose cursor address has a
// 0xFF low byte: the wire must carry that byte exactly twice (the
// inbound builder's doubling), not four times.
func TestSubmitAIDEscapes0xFFOnce(t *testing.T) {
	c := New(64, 64, 64, 64, identityCodepage{}, keyboard.DefaultTheme(), nil)
	c.Active().CursorPos = 4095 // 14-bit encoding: 0x0F, 0xFF

	client, serverSide := net.Pipe()
	defer client.Close()
	defer serverSide.Close()

	c.mu.Lock()
	c.conn = client
	c.framer = telnet.New(client, telnet.Model2, "")
	c.mu.Unlock()

	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := serverSide.Read(buf)
		done <- buf[:n]
	}()

	if err := c.SubmitAID(aid.Clear, true); err != nil {
		t.Fatalf("SubmitAID: %v", err)
	}

	select {
	case got := <-done:
		// AID, addr-hi, addr-lo doubled, then IAC EOR.
		want := []byte{byte(aid.Clear), 0x0F, 0xFF, 0xFF, 0xFF, 0xEF}
		if !bytes.Equal(got, want) {
			t.Fatalf("wire = % X, want % X", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for submitted record")
	}
}

func TestSelectAlternateSwitchesActiveScreen(t *testing.T) {
	c := New(24, 80, 32, 132, identityCodepage{}, keyboard.DefaultTheme(), nil)
	if c.Active().Cols != 80 {
		t.Fatalf("primary cols = %d, want 80", c.Active().Cols)
	}
	c.SelectAlternate(true)
	if c.Active().Cols != 132 {
		t.Fatalf("alternate cols = %d, want 132", c.Active().Cols)
	}
}

func TestStartStopBlinkDoesNotPanic(t *testing.T) {
	c := New(24, 80, 32, 80, identityCodepage{}, keyboard.DefaultTheme(), nil)
	c.StartBlink(context.Background(), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	c.StopBlink()
}
