package analysis

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestStripAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"café", "cafe"},
		{"naïve résumé", "naive resume"},
		{"Ångström", "Angstrom"},
		{"e\u0301", "e"},
		{"plain ascii", "plain ascii"},
		{"straße", "straße"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StripAccents(tt.in); got != tt.want {
			t.Errorf("StripAccents(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupCharset(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF8", "latin1", "windows-1252", " iso-8859-1 ", ""} {
		if _, err := LookupCharset(name); err != nil {
			t.Errorf("LookupCharset(%q): %v", name, err)
		}
	}
}

func TestDecodeCharmap(t *testing.T) {
	got := Decode([]byte{'d', 0xE9, 'j', 0xE0}, charmap.Windows1252)
	if got != "déjà" {
		t.Errorf("Decode = %q, want %q", got, "déjà")
	}
}

func TestDecodeUTF8(t *testing.T) {
	enc, err := LookupCharset("utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if got := Decode([]byte("x\xef\xbf\xbdy\xc3z"), enc); got != "x\uFFFDyz" {
		t.Errorf("Decode = %q, want %q", got, "x\uFFFDyz")
	}
}
