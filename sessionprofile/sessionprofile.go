// Package sessionprofile persists named session records (host address,
// terminal model, codepage, font, themes, blink, ruler, stretch,
// secure-mode, verify-certs) plus named colour and keyboard themes, as
// a single human-editable YAML file.
package sessionprofile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulerStyle is the on-screen ruler's shape.
type RulerStyle string

const (
	RulerCrossHair  RulerStyle = "CrossHair"
	RulerVertical   RulerStyle = "Vertical"
	RulerHorizontal RulerStyle = "Horizontal"
)

// Session is one named persisted session record. Host is written as
// `lu@host:port` or plain `host:port`.
type Session struct {
	Name               string     `yaml:"name"`
	Host               string     `yaml:"host"`
	Model              string     `yaml:"model"` // Model2/Model3/Model4/Model5/ModelDynamic
	Codepage           string     `yaml:"codepage"`
	Font               string     `yaml:"font"`
	ColourTheme        string     `yaml:"colour_theme"`
	KeyboardTheme      string     `yaml:"keyboard_theme"`
	CursorBlink        bool       `yaml:"cursor_blink"`
	CursorBlinkSpeed   int        `yaml:"cursor_blink_speed"` // 0..4
	Ruler              bool       `yaml:"ruler"`
	RulerStyle         RulerStyle `yaml:"ruler_style"`
	StretchToFill      bool       `yaml:"stretch_to_fill"`
	Secure             bool       `yaml:"secure"`
	VerifyCertificates bool       `yaml:"verify_certificates"`
}

// factoryName is the reserved, read-only theme name.
const factoryName = "Factory"

// ErrFactoryReadOnly is returned by SetColourTheme and SetKeyboardTheme
// when asked to replace the "Factory" theme.
var ErrFactoryReadOnly = fmt.Errorf("sessionprofile: %q is reserved and read-only", factoryName)

// Store is the on-disk shape of profiles.yaml: named sessions plus
// named colour and keyboard themes (each a role/key -> value map).
type Store struct {
	Sessions       []Session                    `yaml:"sessions"`
	ColourThemes   map[string]map[string]string `yaml:"colour_themes"`
	KeyboardThemes map[string]map[string]string `yaml:"keyboard_themes"`
}

// New returns an empty Store seeded with the reserved Factory entries.
func New() *Store {
	return &Store{
		ColourThemes:   map[string]map[string]string{factoryName: {}},
		KeyboardThemes: map[string]map[string]string{factoryName: {}},
	}
}

// Load reads and parses a profiles.yaml file from path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sessionprofile: read %s: %w", path, err)
	}
	var s Store
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("sessionprofile: parse %s: %w", path, err)
	}
	if s.ColourThemes == nil {
		s.ColourThemes = map[string]map[string]string{}
	}
	if s.KeyboardThemes == nil {
		s.KeyboardThemes = map[string]map[string]string{}
	}
	s.ColourThemes[factoryName] = factoryColours()
	s.KeyboardThemes[factoryName] = nil
	return &s, nil
}

// Save writes s to path as YAML, mode 0600 (a session profile may carry
// a plaintext host/LU address).
func (s *Store) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessionprofile: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("sessionprofile: write %s: %w", path, err)
	}
	return nil
}

// Find returns the named session record, or ok=false.
func (s *Store) Find(name string) (Session, bool) {
	for _, sess := range s.Sessions {
		if sess.Name == name {
			return sess, true
		}
	}
	return Session{}, false
}

// Put inserts or replaces the session record named sess.Name.
func (s *Store) Put(sess Session) {
	for i, existing := range s.Sessions {
		if existing.Name == sess.Name {
			s.Sessions[i] = sess
			return
		}
	}
	s.Sessions = append(s.Sessions, sess)
}

// SetColourTheme adds or replaces a named colour theme. Returns
// ErrFactoryReadOnly for name == "Factory".
func (s *Store) SetColourTheme(name string, theme map[string]string) error {
	if name == factoryName {
		return ErrFactoryReadOnly
	}
	if s.ColourThemes == nil {
		s.ColourThemes = map[string]map[string]string{}
	}
	s.ColourThemes[name] = theme
	return nil
}

// SetKeyboardTheme adds or replaces a named keyboard theme. Returns
// ErrFactoryReadOnly for name == "Factory".
func (s *Store) SetKeyboardTheme(name string, theme map[string]string) error {
	if name == factoryName {
		return ErrFactoryReadOnly
	}
	if s.KeyboardThemes == nil {
		s.KeyboardThemes = map[string]map[string]string{}
	}
	s.KeyboardThemes[name] = theme
	return nil
}

// factoryColours is the built-in colour-role map (role name -> colour
// name).
func factoryColours() map[string]string {
	return map[string]string{
		"background":  "Black",
		"foreground":  "Green",
		"protected":   "Blue",
		"unprotected": "Green",
		"intensified": "Yellow",
		"highlighted": "Red",
	}
}
