package version

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		".1",
		"1.",
		"-1.0",
		"1.x",
		"70000.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", input)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic")
		}
	}()
	MustParse("bogus")
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.0", "1.0", true},
		{"1.0", "1.3", true},
		{"1.2", "1.0", true},
		{"1.0", "2.0", false},
		{"2.1", "1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := MustParse(tt.a).Compatible(MustParse(tt.b))
			if got != tt.want {
				t.Errorf("Compatible(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCurrentIsValid(t *testing.T) {
	v, err := Parse(Current)
	if err != nil {
		t.Fatalf("Current %q does not parse: %v", Current, err)
	}
	if v.Major != 1 {
		t.Errorf("Current major = %d, want 1", v.Major)
	}
	if !strings.HasSuffix(Banner(), Current) {
		t.Errorf("Banner() = %q, want suffix %q", Banner(), Current)
	}
}

func TestSupports(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
		ok      bool
	}{
		{"", nil, true},
		{"1.0", nil, true},
		{"1.4", nil, true},
		{"2.0", ErrIncompatible, false},
		{"0.9", ErrIncompatible, false},
		{"one", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Supports(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("Supports(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Supports(%q) succeeded, want error", tt.input)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Supports(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
