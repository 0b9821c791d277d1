// Package keyboard implements the 3270 input policy layer: the
// keyboard-lock state machine, the function registry, key-theme binding,
// and the translation of user actions into mutations on a screen buffer
// or an inbound AID submission.
package keyboard

import "github.com/mwilson3270/tn3270core/aid"

// Context is a bitmask of the surfaces a function can be invoked from.
type Context int

const (
	ContextKeyboard Context = 1 << iota
	ContextMenu
	ContextToolbar
	ContextScript
	ContextTouch
)

// FunctionInfo describes one user-facing function: its name, the
// contexts it may be invoked from, a short description, and (for
// AID-bearing functions) the AID byte it submits and whether submitting
// it is a short read.
type FunctionInfo struct {
	Name        string
	Contexts    Context
	Description string
	AID         aid.AID // 0x00 ("None" is 0x60, so zero-value means "not AID-bearing")
	ShortRead   bool
}

const noAID = aid.AID(0)

// registry is the single source of truth for every function name this
// module recognizes. Keyboard unlock is part of Reset's behavior, not a
// separate function.
var registry = []FunctionInfo{
	{Name: "Enter", Contexts: ContextKeyboard | ContextScript, Description: "Send the Enter key", AID: aid.Enter},
	{Name: "Reset", Contexts: ContextKeyboard, Description: "Reset the keyboard"},

	{Name: "Up", Contexts: ContextKeyboard, Description: "Move cursor up"},
	{Name: "Down", Contexts: ContextKeyboard, Description: "Move cursor down"},
	{Name: "Left", Contexts: ContextKeyboard, Description: "Move cursor left"},
	{Name: "Right", Contexts: ContextKeyboard, Description: "Move cursor right"},

	{Name: "Backspace", Contexts: ContextKeyboard, Description: "Delete character to the left"},

	{Name: "Tab", Contexts: ContextKeyboard, Description: "Move to next field"},
	{Name: "Backtab", Contexts: ContextKeyboard, Description: "Move to previous field"},

	{Name: "NewLine", Contexts: ContextKeyboard, Description: "Insert a new line"},
	{Name: "Home", Contexts: ContextKeyboard, Description: "Move cursor to start of line"},
	{Name: "EndLine", Contexts: ContextKeyboard, Description: "Move cursor to end of line"},

	{Name: "EraseEOF", Contexts: ContextKeyboard, Description: "Erase to end of field"},

	{Name: "Insert", Contexts: ContextKeyboard, Description: "Toggle insert mode"},
	{Name: "Delete", Contexts: ContextKeyboard, Description: "Delete character at cursor"},

	{Name: "F1", Contexts: ContextKeyboard | ContextScript, Description: "Function key 1", AID: aid.PF1},
	{Name: "F2", Contexts: ContextKeyboard | ContextScript, Description: "Function key 2", AID: aid.PF2},
	{Name: "F3", Contexts: ContextKeyboard | ContextScript, Description: "Function key 3", AID: aid.PF3},
	{Name: "F4", Contexts: ContextKeyboard | ContextScript, Description: "Function key 4", AID: aid.PF4},
	{Name: "F5", Contexts: ContextKeyboard | ContextScript, Description: "Function key 5", AID: aid.PF5},
	{Name: "F6", Contexts: ContextKeyboard | ContextScript, Description: "Function key 6", AID: aid.PF6},
	{Name: "F7", Contexts: ContextKeyboard | ContextScript, Description: "Function key 7", AID: aid.PF7},
	{Name: "F8", Contexts: ContextKeyboard | ContextScript, Description: "Function key 8", AID: aid.PF8},
	{Name: "F9", Contexts: ContextKeyboard | ContextScript, Description: "Function key 9", AID: aid.PF9},
	{Name: "F10", Contexts: ContextKeyboard | ContextScript, Description: "Function key 10", AID: aid.PF10},
	{Name: "F11", Contexts: ContextKeyboard | ContextScript, Description: "Function key 11", AID: aid.PF11},
	{Name: "F12", Contexts: ContextKeyboard | ContextScript, Description: "Function key 12", AID: aid.PF12},
	{Name: "F13", Contexts: ContextKeyboard | ContextScript, Description: "Function key 13", AID: aid.PF13},
	{Name: "F14", Contexts: ContextKeyboard | ContextScript, Description: "Function key 14", AID: aid.PF14},
	{Name: "F15", Contexts: ContextKeyboard | ContextScript, Description: "Function key 15", AID: aid.PF15},
	{Name: "F16", Contexts: ContextKeyboard | ContextScript, Description: "Function key 16", AID: aid.PF16},
	{Name: "F17", Contexts: ContextKeyboard | ContextScript, Description: "Function key 17", AID: aid.PF17},
	{Name: "F18", Contexts: ContextKeyboard | ContextScript, Description: "Function key 18", AID: aid.PF18},
	{Name: "F19", Contexts: ContextKeyboard | ContextScript, Description: "Function key 19", AID: aid.PF19},
	{Name: "F20", Contexts: ContextKeyboard | ContextScript, Description: "Function key 20", AID: aid.PF20},
	{Name: "F21", Contexts: ContextKeyboard | ContextScript, Description: "Function key 21", AID: aid.PF21},
	{Name: "F22", Contexts: ContextKeyboard | ContextScript, Description: "Function key 22", AID: aid.PF22},
	{Name: "F23", Contexts: ContextKeyboard | ContextScript, Description: "Function key 23", AID: aid.PF23},
	{Name: "F24", Contexts: ContextKeyboard | ContextScript, Description: "Function key 24", AID: aid.PF24},

	{Name: "Attn", Contexts: ContextKeyboard, Description: "Attention key"},

	{Name: "PA1", Contexts: ContextKeyboard | ContextScript, Description: "Program Attention 1", AID: aid.PA1, ShortRead: true},
	{Name: "PA2", Contexts: ContextKeyboard | ContextScript, Description: "Program Attention 2", AID: aid.PA2, ShortRead: true},
	{Name: "PA3", Contexts: ContextKeyboard | ContextScript, Description: "Program Attention 3", AID: aid.PA3, ShortRead: true},

	{Name: "Clear", Contexts: ContextKeyboard | ContextScript, Description: "Clear the screen", AID: aid.Clear, ShortRead: true},

	{Name: "ToggleRuler", Contexts: ContextKeyboard | ContextMenu, Description: "Toggle the ruler display"},

	{Name: "Copy", Contexts: ContextKeyboard | ContextMenu | ContextToolbar, Description: "Copy selection"},
	{Name: "Paste", Contexts: ContextKeyboard | ContextMenu | ContextToolbar, Description: "Paste from clipboard"},
	{Name: "Info", Contexts: ContextKeyboard | ContextMenu, Description: "Show information"},
	{Name: "Fields", Contexts: ContextKeyboard | ContextMenu, Description: "Show field list"},
	{Name: "DumpScreen", Contexts: ContextKeyboard | ContextMenu, Description: "Dump the current screen contents"},
}

var byName = func() map[string]FunctionInfo {
	m := make(map[string]FunctionInfo, len(registry))
	for _, f := range registry {
		m[f.Name] = f
	}
	return m
}()

// All returns every registered function, in registration order.
func All() []FunctionInfo {
	out := make([]FunctionInfo, len(registry))
	copy(out, registry)
	return out
}

// NamesFor returns the name of every function available in context.
func NamesFor(context Context) []string {
	var out []string
	for _, f := range registry {
		if f.Contexts&context != 0 {
			out = append(out, f.Name)
		}
	}
	return out
}

// Lookup returns the registered function named name, or ok=false if
// name isn't registered.
func Lookup(name string) (FunctionInfo, bool) {
	f, ok := byName[name]
	return f, ok
}

// alwaysAllowedLocked is the set of functions that still run while the
// keyboard is locked: Reset and the local (non-transmitting) functions.
var alwaysAllowedLocked = map[string]bool{
	"Reset":       true,
	"Copy":        true,
	"Info":        true,
	"Fields":      true,
	"ToggleRuler": true,
}
