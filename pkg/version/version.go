// Package version provides channel protocol version parsing and comparison.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library. The major
// number changes when the region layout or control byte bits change.
const Current = "1.0"

// Version is a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minor, ".") {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
// Minor versions only add optional flags that older peers ignore.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// ErrIncompatible indicates a configured protocol version this library
// cannot speak.
var ErrIncompatible = errors.New("incompatible protocol version")

// Supports checks that a configured protocol version can be served by
// Current. An empty string means Current.
func Supports(s string) error {
	if s == "" {
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	cur := MustParse(Current)
	if !cur.Compatible(v) {
		return fmt.Errorf("%w: %s (this build speaks %s)", ErrIncompatible, v, cur)
	}
	return nil
}

// Banner returns the line printed by "fpio -version".
func Banner() string {
	return "FloppyIO channel protocol version " + MustParse(Current).String()
}
