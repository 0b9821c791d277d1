package keyboard

// Theme is a key-sequence -> function-name mapping. Binding a key is a
// map edit, never a compiled dispatch table.
type Theme map[string]string

// Left/right Ctrl get distinct key-sequence prefixes so a theme can
// bind them to different functions (3270 muscle memory puts Enter on
// one and Reset on the other). The caller resolves its own native
// ctrl-side keycode into one of these two prefixes before calling
// Resolve, keeping platform keycodes out of this package.
const (
	PrefixLCtrl = "LCtrl+"
	PrefixRCtrl = "RCtrl+"
)

// DefaultTheme is the built-in "Factory" binding set, covering the
// navigation and submission keys every 3270 keyboard layout binds
// identically.
func DefaultTheme() Theme {
	return Theme{
		"Enter":     "Enter",
		"Return":    "Enter",
		"Tab":       "Tab",
		"Shift+Tab": "Backtab",
		"Backspace": "Backspace",
		"Delete":    "Delete",
		"Insert":    "Insert",
		"Up":        "Up",
		"Down":      "Down",
		"Left":      "Left",
		"Right":     "Right",
		"Home":      "Home",
		"End":       "EndLine",

		PrefixLCtrl + "F1":  "F1",
		PrefixLCtrl + "F2":  "F2",
		PrefixLCtrl + "F3":  "F3",
		PrefixLCtrl + "F4":  "F4",
		PrefixLCtrl + "F5":  "F5",
		PrefixLCtrl + "F6":  "F6",
		PrefixLCtrl + "F7":  "F7",
		PrefixLCtrl + "F8":  "F8",
		PrefixLCtrl + "F9":  "F9",
		PrefixLCtrl + "F10": "F10",
		PrefixLCtrl + "F11": "F11",
		PrefixLCtrl + "F12": "F12",

		PrefixRCtrl + "F1":  "F13",
		PrefixRCtrl + "F2":  "F14",
		PrefixRCtrl + "F3":  "F15",
		PrefixRCtrl + "F4":  "F16",
		PrefixRCtrl + "F5":  "F17",
		PrefixRCtrl + "F6":  "F18",
		PrefixRCtrl + "F7":  "F19",
		PrefixRCtrl + "F8":  "F20",
		PrefixRCtrl + "F9":  "F21",
		PrefixRCtrl + "F10": "F22",
		PrefixRCtrl + "F11": "F23",
		PrefixRCtrl + "F12": "F24",

		"PageUp":   "PA1",
		"PageDown": "PA2",

		PrefixLCtrl + "Pause": "Attn",

		"Escape": "Clear",

		PrefixLCtrl + "R": "ToggleRuler",
		PrefixLCtrl + "C": "Copy",
		PrefixLCtrl + "V": "Paste",
		PrefixLCtrl + "I": "Info",
	}
}

// Bind sets or replaces t's binding for seq.
func (t Theme) Bind(seq, function string) { t[seq] = function }

// Unbind removes seq's binding, if any.
func (t Theme) Unbind(seq string) { delete(t, seq) }

// Resolve returns the function name bound to seq, or ok=false if seq is
// unbound in this theme.
func (t Theme) Resolve(seq string) (string, bool) {
	name, ok := t[seq]
	return name, ok
}
