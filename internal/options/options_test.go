package options

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nmkale/subtide/internal/colors"
)

func TestTypedAccess(t *testing.T) {
	s := NewStore()

	if !s.Get("Audio/Snap/Enable").GetBool() {
		t.Errorf("snap should default to enabled")
	}
	if s.Get("Audio/Snap/Distance").GetInt() != 10 {
		t.Errorf("snap distance default wrong")
	}
	if s.Get("Timing/Default Duration").GetInt() != 2000 {
		t.Errorf("default duration wrong")
	}
}

func TestTypeMismatchPanics(t *testing.T) {
	s := NewStore()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("type-confused access should panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "Audio/Snap/Enable") {
			t.Errorf("panic message should name the option, got %v", r)
		}
	}()
	s.Get("Audio/Snap/Enable").GetInt()
}

func TestUnknownOptionPanics(t *testing.T) {
	s := NewStore()

	defer func() {
		if recover() == nil {
			t.Fatalf("unknown option access should panic")
		}
	}()
	s.Get("No/Such/Option")
}

func TestChangeNotification(t *testing.T) {
	s := NewStore()
	v := s.Get("Audio/Snap/Distance")

	fired := 0
	v.Subscribe(func(*Value) { fired++ })

	v.SetInt(25)
	if fired != 1 {
		t.Errorf("change signal fired %d times, want 1", fired)
	}

	// setting the same value again is not a change
	v.SetInt(25)
	if fired != 1 {
		t.Errorf("no-op set fired the change signal")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.toml")

	s := NewStore()
	s.Get("Audio/Snap/Distance").SetInt(42)
	s.Get("Audio/Snap/Enable").SetBool(false)
	s.Get("Colour/Audio Display/Keyframe").SetColor(colors.New(1, 2, 3))
	if err := s.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	s2 := NewStore()
	if err := s2.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s2.Get("Audio/Snap/Distance").GetInt() != 42 {
		t.Errorf("int did not round trip")
	}
	if s2.Get("Audio/Snap/Enable").GetBool() {
		t.Errorf("bool did not round trip")
	}
	if s2.Get("Colour/Audio Display/Keyframe").GetColor() != colors.New(1, 2, 3) {
		t.Errorf("color did not round trip")
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	s := NewStore()
	if err := s.Load(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Errorf("missing options file should not be an error: %v", err)
	}
}
