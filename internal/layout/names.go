package layout

import (
	"fmt"
	"strings"
)

var (
	cornerNames      = [...]string{"top_left", "top_right", "bottom_left", "bottom_right"}
	arrangementNames = [...]string{"rows", "columns"}
	wiringNames      = [...]string{"linear", "serpentine"}
)

// Alternative spellings accepted when parsing.
var wiringAliases = map[string]Wiring{
	"progressive": Linear,
	"zig_zag":     Serpentine,
	"zigzag":      Serpentine,
}

func name(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func parse(names []string, s, kind string) (uint8, error) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("layout: unknown %s %q", kind, s)
}

func (c Corner) String() string      { return name(cornerNames[:], uint8(c), "Corner") }
func (a Arrangement) String() string { return name(arrangementNames[:], uint8(a), "Arrangement") }
func (w Wiring) String() string      { return name(wiringNames[:], uint8(w), "Wiring") }

// MarshalText implements encoding.TextMarshaler.
func (c Corner) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Corner) UnmarshalText(text []byte) error {
	v, err := parse(cornerNames[:], string(text), "corner")
	*c = Corner(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (a Arrangement) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Arrangement) UnmarshalText(text []byte) error {
	v, err := parse(arrangementNames[:], string(text), "arrangement")
	*a = Arrangement(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (w Wiring) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Wiring) UnmarshalText(text []byte) error {
	key := strings.ToLower(strings.TrimSpace(string(text)))
	if alias, ok := wiringAliases[key]; ok {
		*w = alias
		return nil
	}
	v, err := parse(wiringNames[:], key, "wiring")
	*w = Wiring(v)
	return err
}
