package sessionprofile

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")

	s := New()
	s.Put(Session{
		Name:     "prod",
		Host:     "PRDLU@mainframe.example.com:23",
		Model:    "Model2",
		Codepage: "037",
		Secure:   true,
	})
	if err := s.SetColourTheme("dark", map[string]string{"background": "Black"}); err != nil {
		t.Fatalf("SetColourTheme: %v", err)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := loaded.Find("prod")
	if !ok {
		t.Fatalf("session %q not found after round trip", "prod")
	}
	if got.Host != "PRDLU@mainframe.example.com:23" || !got.Secure {
		t.Fatalf("session round-tripped wrong: %+v", got)
	}
	if _, ok := loaded.ColourThemes["dark"]; !ok {
		t.Fatalf("colour theme %q missing after round trip", "dark")
	}
}

func TestFactoryThemeReadOnly(t *testing.T) {
	s := New()
	if err := s.SetColourTheme("Factory", nil); err != ErrFactoryReadOnly {
		t.Fatalf("SetColourTheme(Factory) = %v, want ErrFactoryReadOnly", err)
	}
	if err := s.SetKeyboardTheme("Factory", nil); err != ErrFactoryReadOnly {
		t.Fatalf("SetKeyboardTheme(Factory) = %v, want ErrFactoryReadOnly", err)
	}
}

func TestLoadSeedsFactoryTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := New().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := loaded.ColourThemes["Factory"]; !ok {
		t.Fatalf("Factory colour theme missing after load")
	}
}
