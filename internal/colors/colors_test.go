package colors

import "testing"

func TestColorRoundTrip(t *testing.T) {
	c := New(216, 62, 62)
	if c.String() != "#D83E3E" {
		t.Errorf("String = %q, want #D83E3E", c.String())
	}

	back, err := Parse(c.String())
	if err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("round trip gave %v, want %v", back, c)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "D83E3E", "#D83E", "#GGGGGG"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestShade(t *testing.T) {
	if Shade(0) != New(255, 255, 255) {
		t.Errorf("silence should map to white")
	}
	if Shade(1) != New(0, 0, 0) {
		t.Errorf("full scale should map to black")
	}
	if Shade(2) != New(0, 0, 0) {
		t.Errorf("overdrive should clamp")
	}
}
