package loggerstate

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the coarse condition of a subsystem.
type Status uint8

const (
	Initialize Status = iota
	Working
	Error
)

var ErrUnknownStatus = errors.New("unknown status")

var statusNames = [...]string{
	Initialize: "INITIALIZE",
	Working:    "WORKING",
	Error:      "ERROR",
}

// String returns the upper-case name of s, or "UNKNOWN" for values outside
// the enumerated set.
func (s Status) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return statusNames[s]
}

// Valid reports whether s is one of Initialize, Working or Error.
func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// ParseStatus is the inverse of String. Case is ignored.
func ParseStatus(text string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(text))
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", text, ErrUnknownStatus)
}

// MarshalText produces the string value of this Status.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("status %d: %w", uint8(s), ErrUnknownStatus)
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
