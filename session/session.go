// Package session implements the session controller: it owns the
// (primary, alternate) screen pair and the current-screen pointer,
// wires the data-stream interpreter to the telnet framer and the
// keyboard to the screen, tracks the status indicators the rendering
// collaborator reads, and handles reset/disconnect/reconnect with a
// preserved screen.
package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwilson3270/tn3270core/aid"
	"github.com/mwilson3270/tn3270core/datastream"
	"github.com/mwilson3270/tn3270core/inbound"
	"github.com/mwilson3270/tn3270core/keyboard"
	"github.com/mwilson3270/tn3270core/screen"
	"github.com/mwilson3270/tn3270core/telnet"
	"github.com/mwilson3270/tn3270core/tnlog"

	"log/slog"
)

// EncryptionState re-exports telnet's, so callers don't need to import
// telnet just to read Status.Encryption.
type EncryptionState = telnet.EncryptionState

const (
	Unencrypted   = telnet.Unencrypted
	SemiEncrypted = telnet.SemiEncrypted
	Encrypted     = telnet.Encrypted
)

// Status is the small, repeatedly-refreshed struct the rendering
// collaborator reads: lock state, insert/overtype, cursor x/y, and
// encryption state.
type Status struct {
	Lock       keyboard.LockState
	Insert     bool
	CursorX    int
	CursorY    int
	Encryption EncryptionState
	Connected  bool
	Reason     string // "Not Connected" reason line
}

// Controller owns one session. Every Controller carries a UUID
// correlation id used in its log records.
type Controller struct {
	ID uuid.UUID

	mu        sync.Mutex
	primary   *screen.Screen
	alternate *screen.Screen
	active    bool // false = primary, true = alternate

	cp     screen.Codepage
	log    *slog.Logger
	conn   net.Conn
	framer *telnet.Framer
	interp *datastream.Interpreter
	kb     *keyboard.Keyboard

	cursorBlinkCancel context.CancelFunc
	blinkVisible      bool

	lastReason string
}

// New creates a Controller with a primary screen of rows x cols and an
// alternate screen of altRows x altCols, using cp to translate typed
// characters and decode/encode field data, logging to logger (use
// tnlog.New if the caller has no logger of its own).
func New(rows, cols, altRows, altCols int, cp screen.Codepage, theme keyboard.Theme, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = tnlog.New(nil, slog.LevelInfo, false)
	}
	c := &Controller{
		ID:        uuid.New(),
		primary:   screen.New(rows, cols),
		alternate: screen.New(altRows, altCols),
		cp:        cp,
		log:       logger,
	}
	c.interp = datastream.New(c, datastream.Hooks{
		UnlockKeyboard: c.onUnlockKeyboard,
		SoundAlarm:     c.onSoundAlarm,
	})
	c.kb = keyboard.New(c, theme)
	return c
}

// Active implements datastream.ScreenHost.
func (c *Controller) Active() *screen.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *Controller) activeLocked() *screen.Screen {
	if c.active {
		return c.alternate
	}
	return c.primary
}

// SelectAlternate implements datastream.ScreenHost, for EWA.
func (c *Controller) SelectAlternate(alternate bool) {
	c.mu.Lock()
	c.active = alternate
	c.mu.Unlock()
}

// Screen implements keyboard.Host.
func (c *Controller) Screen() *screen.Screen { return c.Active() }

// Codepage implements keyboard.Host.
func (c *Controller) Codepage() screen.Codepage { return c.cp }

// Keyboard exposes the bound input policy layer so callers can drive
// ProcessKey/Dispatch directly and read Status's lock/insert state.
func (c *Controller) Keyboard() *keyboard.Keyboard { return c.kb }

// SubmitAID implements keyboard.Host: builds and transmits an inbound
// record for a (aid, shortRead) submission. Short-read AIDs (Clear,
// PA1-3) transmit only the AID and cursor address; Clear additionally
// clears the screen once the record is built.
func (c *Controller) SubmitAID(a aid.AID, shortRead bool) error {
	s := c.Active()
	s.LastAID = byte(a)
	var rec []byte
	if shortRead {
		rec = inbound.BuildShortRead(s, a)
	} else {
		rec = inbound.BuildModifiedFieldRead(s, a)
	}
	if c.framer == nil {
		return fmt.Errorf("session: not connected")
	}
	if err := c.framer.SendRecord(rec); err != nil {
		return fmt.Errorf("session: send record: %w", err)
	}
	if a == aid.Clear {
		s.Clear()
	}
	c.log.Debug("submitted AID", "session", c.ID, "aid", a.String(), "short_read", shortRead)
	return nil
}

func (c *Controller) onUnlockKeyboard() {
	c.kb.Unlock()
	c.log.Debug("keyboard unlocked by WCC", "session", c.ID)
}

func (c *Controller) onSoundAlarm() {
	c.log.Debug("alarm", "session", c.ID)
}

// Connect dials network/addr, optionally over TLS, and starts the
// framer's read loop in a background goroutine. Model and luName drive
// TTYPE/TN3270E device-type negotiation.
func (c *Controller) Connect(ctx context.Context, network, addr string, model telnet.Model, luName string, secure, verifyCertificates bool) error {
	dialer := &net.Dialer{}
	var conn net.Conn
	var err error
	if secure {
		tlsConf := &tls.Config{InsecureSkipVerify: !verifyCertificates}
		conn, err = tls.DialWithDialer(dialer, network, addr, tlsConf)
	} else {
		conn, err = dialer.DialContext(ctx, network, addr)
	}
	if err != nil {
		c.setReason(fmt.Sprintf("Not Connected: %v", err))
		return fmt.Errorf("session: dial %s: %w", addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.framer = telnet.New(conn, model, luName)
	if secure {
		if !verifyCertificates {
			c.framer.Encryption = telnet.SemiEncrypted
		} else {
			c.framer.Encryption = telnet.Encrypted
		}
	}
	c.framer.OnRecord = c.onOutboundRecord
	c.mu.Unlock()

	go c.readLoop(conn, c.framer)
	c.log.Info("connected", "session", c.ID, "addr", addr)
	return nil
}

func (c *Controller) readLoop(conn net.Conn, framer *telnet.Framer) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		for i := 0; i < n; i++ {
			if ferr := framer.Feed(buf[i]); ferr != nil {
				c.log.Warn("telnet framer error", "session", c.ID, "err", ferr)
			}
		}
		if err != nil {
			c.Disconnect(err.Error())
			return
		}
	}
}

// onOutboundRecord is the framer's OnRecord callback: interprets a
// record and transmits any reply back through the framer.
func (c *Controller) onOutboundRecord(record []byte) {
	reply, err := c.interp.ProcessRecord(record)
	if err != nil {
		c.log.Warn("datastream error", "session", c.ID, "err", err)
	}
	if reply != nil && c.framer != nil {
		if err := c.framer.SendRecord(reply); err != nil {
			c.log.Warn("send reply failed", "session", c.ID, "err", err)
		}
	}
}

// Disconnect ends the session: the screen is preserved, and reason
// becomes Status's "Not Connected" reason line. A later successful
// Connect or Reconnect does not clear it; only another Disconnect or a
// failed dial replaces it.
func (c *Controller) Disconnect(reason string) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.framer = nil
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	c.setReason(reason)
	c.log.Info("disconnected", "session", c.ID, "reason", reason)
}

// Reconnect dials the same endpoint again, reusing the preserved
// primary/alternate screens rather than discarding them.
func (c *Controller) Reconnect(ctx context.Context, network, addr string, model telnet.Model, luName string, secure, verifyCertificates bool) error {
	return c.Connect(ctx, network, addr, model, luName, secure, verifyCertificates)
}

func (c *Controller) setReason(reason string) {
	c.mu.Lock()
	c.lastReason = reason
	c.mu.Unlock()
}

// Status returns the current status indicators.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.activeLocked()
	enc := Unencrypted
	if c.framer != nil {
		enc = c.framer.Encryption
	}
	return Status{
		Lock:       c.kb.Lock,
		Insert:     c.kb.Insert,
		CursorX:    s.CursorPos % s.Cols,
		CursorY:    s.CursorPos / s.Cols,
		Encryption: enc,
		Connected:  c.conn != nil,
		Reason:     c.lastReason,
	}
}

// StartBlink starts a cursor-blink ticker at the given period,
// toggling blinkVisible; StopBlink (or cancelling ctx) stops it. The
// tick only toggles a visibility flag and never touches protocol
// state.
func (c *Controller) StartBlink(ctx context.Context, period time.Duration) {
	blinkCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cursorBlinkCancel != nil {
		c.cursorBlinkCancel()
	}
	c.cursorBlinkCancel = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-blinkCtx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				c.blinkVisible = !c.blinkVisible
				c.mu.Unlock()
			}
		}
	}()
}

// StopBlink stops the cursor-blink ticker started by StartBlink, if any.
func (c *Controller) StopBlink() {
	c.mu.Lock()
	cancel := c.cursorBlinkCancel
	c.cursorBlinkCancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// BlinkVisible reports the cursor-blink ticker's current phase.
func (c *Controller) BlinkVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blinkVisible
}
