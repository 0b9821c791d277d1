// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270core

import (
	"fmt"

	"github.com/mwilson3270/tn3270core/internal/codepage"
)

// Codepage provides EBCDIC<->UTF-8 translation for the outbound/inbound
// data stream. By default, this module is configured to use CP 1047.
// You may alternatively select a different codepage with ByName or
// SetCodepage during application initialization.
type Codepage interface {
	// Decode converts a slice of EBCDIC bytes into a UTF-8 string.
	Decode(e []byte) string

	// Encode converts a UTF-8 string into a slice of EBCDIC bytes.
	Encode(s string) []byte

	// ID returns the name of this codepage, e.g. "037" or "1047".
	ID() string
}

// After careful consideration, the default code page is IBM CP 1047. Other
// code pages may be globally selected with SetCodepage, or per-session via
// sessionprofile's Codepage field.
//
// In suite3270 (e.g. c3270/x3270), the default code page is what it calls
// "brackets". This is CP37 with the [, ], Ý, and ¨ characters swapped around.
// This ends up placing all four of those characters in the correct place for
// 1047. HOWEVER, the ^ and ¬ characters are swapped relative to CP1047. (Or,
// more succinctly, you could say the suite3270 "brackets" codepage is CP1047
// with the ^ and ¬ characters swapped back to where they are in CP37.)
//
// In Vista TN3270, "United States" is the default code page. This is CP1047
// and will map 100% correctly.
//
// In IBM PCOMM, CP37 is the default. For correct mapping of [, ], Ý, ¨, ^,
// and ¬, you must switch the session parameters from "037 United States" to
// "1047 United States".
var defaultCodepage Codepage = Codepage1047()

// SetCodepage sets the process-wide default codepage returned by
// DefaultCodepage. The screen, datastream, keyboard and session packages
// do not consult it; they use the Codepage passed to them. This is a
// global setting; prefer passing a Codepage explicitly per session when
// sessions may run against hosts configured for different national code
// pages.
func SetCodepage(cs Codepage) {
	defaultCodepage = cs
}

// DefaultCodepage returns the process-wide default codepage set by
// SetCodepage (or CP1047 if it has never been called).
func DefaultCodepage() Codepage {
	return defaultCodepage
}

func Codepage037() Codepage  { return codepage.Codepage037 }
func Codepage285() Codepage  { return codepage.Codepage285 }
func Codepage1047() Codepage { return codepage.Codepage1047 }

var codepageByName = map[string]func() Codepage{
	"037":  Codepage037,
	"285":  Codepage285,
	"1047": Codepage1047,
}

// ByName selects a Codepage by its display name, e.g. "037", "285", or
// "1047". It returns an error for any name this module does not carry a
// table for.
func ByName(name string) (Codepage, error) {
	fn, ok := codepageByName[name]
	if !ok {
		return nil, fmt.Errorf("tn3270core: unknown codepage %q", name)
	}
	return fn(), nil
}
