package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/nmkale/subtide/internal/colors"
	"github.com/nmkale/subtide/internal/event"
)

// Type identifies the kind of value an option holds.
type Type int

const (
	String Type = iota
	Int
	Float
	Color
	Bool
)

func (t Type) String() string {
	switch t {
	case String:
		return "String"
	case Int:
		return "Integer"
	case Float:
		return "Float"
	case Color:
		return "Color"
	case Bool:
		return "Bool"
	}
	panic(fmt.Sprintf("options: invalid option type %d", int(t)))
}

// Value is a single named option. Accessing it as the wrong type is a
// programmer error and panics.
type Value struct {
	name    string
	typ     Type
	s       string
	i       int
	f       float64
	c       colors.Color
	b       bool
	changed event.Signal[*Value]
}

func (v *Value) Name() string { return v.name }
func (v *Value) Type() Type   { return v.typ }

func (v *Value) typeError(want Type) string {
	return fmt.Sprintf("options: invalid type for option %s: expected %s, got %s",
		v.name, want, v.typ)
}

func (v *Value) GetString() string {
	if v.typ != String {
		panic(v.typeError(String))
	}
	return v.s
}

func (v *Value) GetInt() int {
	if v.typ != Int {
		panic(v.typeError(Int))
	}
	return v.i
}

func (v *Value) GetFloat() float64 {
	if v.typ != Float {
		panic(v.typeError(Float))
	}
	return v.f
}

func (v *Value) GetColor() colors.Color {
	if v.typ != Color {
		panic(v.typeError(Color))
	}
	return v.c
}

func (v *Value) GetBool() bool {
	if v.typ != Bool {
		panic(v.typeError(Bool))
	}
	return v.b
}

func (v *Value) SetString(s string) {
	if v.typ != String {
		panic(v.typeError(String))
	}
	if v.s != s {
		v.s = s
		v.changed.Emit(v)
	}
}

func (v *Value) SetInt(i int) {
	if v.typ != Int {
		panic(v.typeError(Int))
	}
	if v.i != i {
		v.i = i
		v.changed.Emit(v)
	}
}

func (v *Value) SetFloat(f float64) {
	if v.typ != Float {
		panic(v.typeError(Float))
	}
	if v.f != f {
		v.f = f
		v.changed.Emit(v)
	}
}

func (v *Value) SetColor(c colors.Color) {
	if v.typ != Color {
		panic(v.typeError(Color))
	}
	if v.c != c {
		v.c = c
		v.changed.Emit(v)
	}
}

func (v *Value) SetBool(b bool) {
	if v.typ != Bool {
		panic(v.typeError(Bool))
	}
	if v.b != b {
		v.b = b
		v.changed.Emit(v)
	}
}

// Subscribe registers a change listener for this option.
func (v *Value) Subscribe(fn func(*Value)) *event.Connection[*Value] {
	return v.changed.Subscribe(fn)
}

// Store is a name-to-typed-value map with per-key change notification.
type Store struct {
	values map[string]*Value
}

// NewStore builds a store populated with the default option table.
func NewStore() *Store {
	s := &Store{values: make(map[string]*Value)}
	registerDefaults(s)
	return s
}

// Get returns the option with the given name. Unknown names are a
// programmer error and panic.
func (s *Store) Get(name string) *Value {
	v, ok := s.values[name]
	if !ok {
		panic(fmt.Sprintf("options: unknown option %s", name))
	}
	return v
}

func (s *Store) declareString(name, def string) {
	s.values[name] = &Value{name: name, typ: String, s: def}
}

func (s *Store) declareInt(name string, def int) {
	s.values[name] = &Value{name: name, typ: Int, i: def}
}

func (s *Store) declareFloat(name string, def float64) {
	s.values[name] = &Value{name: name, typ: Float, f: def}
}

func (s *Store) declareColor(name string, def colors.Color) {
	s.values[name] = &Value{name: name, typ: Color, c: def}
}

func (s *Store) declareBool(name string, def bool) {
	s.values[name] = &Value{name: name, typ: Bool, b: def}
}

// Load reads user overrides from a TOML file. Keys the store does not know
// and values of the wrong shape are skipped; a missing file is not an error.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read options file: %w", err)
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse options file: %w", err)
	}

	for name, rv := range raw {
		v, ok := s.values[name]
		if !ok {
			continue
		}
		switch v.typ {
		case String:
			if sv, ok := rv.(string); ok {
				v.SetString(sv)
			}
		case Int:
			if iv, ok := rv.(int64); ok {
				v.SetInt(int(iv))
			}
		case Float:
			switch fv := rv.(type) {
			case float64:
				v.SetFloat(fv)
			case int64:
				v.SetFloat(float64(fv))
			}
		case Color:
			if sv, ok := rv.(string); ok {
				if c, err := colors.Parse(sv); err == nil {
					v.SetColor(c)
				}
			}
		case Bool:
			if bv, ok := rv.(bool); ok {
				v.SetBool(bv)
			}
		}
	}
	return nil
}

// Save writes the current values to a TOML file, creating directories as
// needed.
func (s *Store) Save(path string) error {
	raw := make(map[string]any, len(s.values))
	for name, v := range s.values {
		switch v.typ {
		case String:
			raw[name] = v.s
		case Int:
			raw[name] = v.i
		case Float:
			raw[name] = v.f
		case Color:
			raw[name] = v.c.String()
		case Bool:
			raw[name] = v.b
		}
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to serialise options: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create options dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the per-user options file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subtide", "options.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "subtide", "options.toml")
}
