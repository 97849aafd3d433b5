package domain

import (
	"fmt"
	"strings"
)

// Format is the order in which the three color channels of a pixel are
// transmitted on the wire.
type Format uint8

// Supported byte orders.
const (
	RGB Format = iota
	RBG
	GRB
	GBR
	BRG
	BGR
)

var formatNames = [...]string{"RGB", "RBG", "GRB", "GBR", "BRG", "BGR"}

// String returns the channel order, e.g. "GRB".
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat parses a channel order name. It is case insensitive.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pixel format %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if int(f) >= len(formatNames) {
		return nil, fmt.Errorf("invalid pixel format %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
