package styled

import (
	"encoding/json"
	"testing"
)

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		want    Colour
		wantErr bool
	}{
		{"red", "red", false},
		{"Red", "red", false},
		{"LIGHT_BLUE", "lightblue", false},
		{"light-cyan", "lightcyan", false},
		{"gray", "grey", false},
		{"Reset", ColourReset, false},
		{"#FF0000", "#ff0000", false},
		{"#abc", "#aabbcc", false},
		{"#12345", "", true},
		{"#zzzzzz", "", true},
		{"octarine", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColour(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColour(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestColourAccessors(t *testing.T) {
	if idx, ok := MustParseColour("lightred").PaletteIndex(); !ok || idx != 9 {
		t.Errorf("PaletteIndex() = %d, %v; want 9, true", idx, ok)
	}
	if _, ok := ColourReset.PaletteIndex(); ok {
		t.Error("reset should not have a palette index")
	}
	if !ColourReset.IsReset() {
		t.Error("IsReset() = false for reset")
	}

	r, g, b, ok := MustParseColour("#102030").RGB()
	if !ok || r != 0x10 || g != 0x20 || b != 0x30 {
		t.Errorf("RGB() = %d,%d,%d,%v", r, g, b, ok)
	}
	if _, _, _, ok := MustParseColour("blue").RGB(); ok {
		t.Error("named colour should not report RGB")
	}
}

func TestColourEquality(t *testing.T) {
	if MustParseColour("Light Green") != MustParseColour("lightgreen") {
		t.Error("equivalent names should compare equal")
	}
	if MustParseColour("#FFF") != MustParseColour("#ffffff") {
		t.Error("equivalent hex forms should compare equal")
	}
}

func TestColourJSON(t *testing.T) {
	var c Colour
	if err := json.Unmarshal([]byte(`"Magenta"`), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c != "magenta" {
		t.Errorf("got %q, want magenta", c)
	}

	if err := json.Unmarshal([]byte(`7`), &c); err == nil {
		t.Error("expected error for non-string colour")
	}

	out, err := json.Marshal(Colour("#00ff00"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `"#00ff00"` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestMustParseColourPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseColour("not-a-colour")
}
