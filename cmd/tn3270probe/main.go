// Command tn3270probe is a demo CLI wiring the full core stack end to
// end: it dials a TN3270 host, puts the local terminal into raw mode,
// feeds keystrokes through the keyboard policy layer, and renders the
// active screen each time a host record changes it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/term"

	"github.com/mwilson3270/tn3270core/internal/codepage"
	"github.com/mwilson3270/tn3270core/keyboard"
	"github.com/mwilson3270/tn3270core/screen"
	"github.com/mwilson3270/tn3270core/session"
	"github.com/mwilson3270/tn3270core/sessionprofile"
	"github.com/mwilson3270/tn3270core/telnet"
	"github.com/mwilson3270/tn3270core/tnlog"
)

var modelTable = map[string]telnet.Model{
	"2":       telnet.Model2,
	"3":       telnet.Model3,
	"4":       telnet.Model4,
	"5":       telnet.Model5,
	"dynamic": telnet.ModelDynamic,
}

var modelSizes = map[telnet.Model][2]int{
	telnet.Model2:       {24, 80},
	telnet.Model3:       {32, 80},
	telnet.Model4:       {43, 80},
	telnet.Model5:       {27, 132},
	telnet.ModelDynamic: {27, 132},
}

func main() {
	optHost := getopt.StringLong("host", 'H', "", "host[:port] to dial, e.g. mainframe:23")
	optModel := getopt.StringLong("model", 'm', "2", "terminal model: 2, 3, 4, 5, dynamic")
	optCodepage := getopt.StringLong("codepage", 'c', "037", "code page: 037, 285, 1047")
	optProfile := getopt.StringLong("profile", 'p', "", "session name to load from profiles.yaml")
	optProfilePath := getopt.StringLong("profile-file", 0, "profiles.yaml", "session profile store path")
	optLogFile := getopt.StringLong("log", 'l', "", "log file")
	optDebug := getopt.BoolLong("debug", 'd', "log debug records to stderr")
	optSecure := getopt.BoolLong("secure", 's', "connect over TLS")
	optNoVerify := getopt.BoolLong("no-verify", 0, "don't validate the TLS certificate chain")
	optHelp := getopt.BoolLong("help", 'h', "show help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	host := *optHost
	modelName := *optModel
	cpName := *optCodepage
	secure := *optSecure
	verify := !*optNoVerify

	if *optProfile != "" {
		store, err := sessionprofile.Load(*optProfilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
			os.Exit(1)
		}
		sess, ok := store.Find(*optProfile)
		if !ok {
			fmt.Fprintf(os.Stderr, "tn3270probe: no session named %q in %s\n", *optProfile, *optProfilePath)
			os.Exit(1)
		}
		host = sess.Host
		// Profiles store "Model2".."ModelDynamic"; modelTable is keyed
		// by the --model spelling ("2".."dynamic").
		modelName = strings.TrimPrefix(strings.ToLower(sess.Model), "model")
		cpName = sess.Codepage
		secure = sess.Secure
		verify = sess.VerifyCertificates
	}

	if host == "" {
		fmt.Fprintln(os.Stderr, "tn3270probe: --host is required (or --profile with a saved host)")
		os.Exit(1)
	}

	model, ok := modelTable[modelName]
	if !ok {
		fmt.Fprintf(os.Stderr, "tn3270probe: unknown model %q\n", modelName)
		os.Exit(1)
	}
	cp, err := codepage.ByName(cpName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
		os.Exit(1)
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
	}
	level := slog.LevelInfo
	if *optDebug {
		level = slog.LevelDebug
	}
	logger := tnlog.New(logFile, level, *optDebug)

	size := modelSizes[model]
	ctrl := session.New(size[0], size[1], 27, 132, cp, keyboard.DefaultTheme(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctrl.Disconnect("interrupted")
		cancel()
	}()

	if err := ctrl.Connect(ctx, "tcp", host, model, "", secure, verify); err != nil {
		fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
		os.Exit(1)
	}
	ctrl.StartBlink(ctx, 500*time.Millisecond)
	defer ctrl.StopBlink()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tn3270probe: raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	runKeyLoop(ctx, ctrl, cp, os.Stdin)
}

// runKeyLoop reads raw bytes from in and dispatches them through the
// keyboard policy layer until ctx is cancelled, repainting after each
// key. This is a minimal demo mapping (Enter/Tab/Backspace/Esc/printable
// ASCII); a real client wires a full keycode table through a Theme
// instead.
func runKeyLoop(ctx context.Context, ctrl *session.Controller, cp screen.Codepage, in *os.File) {
	buf := make([]byte, 1)
	repaint(ctrl, cp)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		dispatchKey(ctrl, buf[0])
		repaint(ctrl, cp)
	}
}

func dispatchKey(ctrl *session.Controller, b byte) {
	kb := ctrl.Keyboard()
	switch b {
	case '\r', '\n':
		_ = kb.Dispatch("Enter")
	case 0x09:
		_ = kb.Dispatch("Tab")
	case 0x7F, 0x08:
		_ = kb.Dispatch("Backspace")
	case 0x1B:
		_ = kb.Dispatch("Clear")
	default:
		if b >= 0x20 && b < 0x7F {
			_ = kb.TypeChar(rune(b))
		}
	}
}

// repaint draws the active screen's glyphs to stdout, one line per
// row, translating each stored EBCDIC byte back through cp (nulls
// render as spaces). A real client repaints from a windowed rendering
// collaborator instead; this is a terminal-friendly stand-in for the
// demo.
func repaint(ctrl *session.Controller, cp screen.Codepage) {
	s := ctrl.Screen()
	fmt.Print("\033[H\033[2J")
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			c := s.Cell(row*s.Cols + col)
			if c.Ebcdic == 0 {
				fmt.Print(" ")
				continue
			}
			fmt.Print(cp.Decode([]byte{c.Ebcdic}))
		}
		fmt.Print("\r\n")
	}
	st := ctrl.Status()
	fmt.Printf("\r\n[%s] cursor=(%d,%d)\r\n", st.Lock, st.CursorX, st.CursorY)
}
