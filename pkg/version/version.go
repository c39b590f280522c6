// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrComponentCount    = errors.New("version must have exactly 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// DefaultTctl is the tctl release the ServiceRoute editor job downloads
// when the fleet config does not pin one.
var DefaultTctl = NewVersion(1, 2, 0)

// Version is a tctl release number. tctl is distributed per full release,
// so all three components are required. Pre-release or build suffixes
// (e.g. "-rc1") are preserved in Extras and rendered back by String.
type Version struct {
	Major  int    `json:"major" yaml:"major"`
	Minor  int    `json:"minor" yaml:"minor"`
	Patch  int    `json:"patch" yaml:"patch"`
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion creates a new Version with the specified major, minor, and patch values.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// String returns "Major.Minor.Patch" followed by any extras, which is the
// form used in tctl download URLs.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Extras)
}

// ParseVersion parses a version string into a Version struct.
// Supported formats: "1.2.3", "v1.2.3", "1.2.3-suffix", "1.2.3+metadata".
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// Extras start at the first '-' or '+' that follows a digit, so
	// "1.2.0-rc.1" keeps its dotted suffix intact.
	mainPart := s
	for i, ch := range s {
		if (ch == '-' || ch == '+') && i > 0 {
			prevCh := s[i-1]
			if prevCh >= '0' && prevCh <= '9' {
				mainPart = s[:i]
				v.Extras = s[i:]
				break
			}
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: got %d in %q", ErrComponentCount, len(parts), s)
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns an integer comparing two versions:
// -1 if v < other, 0 if v == other, 1 if v > other. Extras are ignored.
func (v Version) Compare(other Version) int {
	for _, d := range [...][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}} {
		if d[0] < d[1] {
			return -1
		}
		if d[0] > d[1] {
			return 1
		}
	}
	return 0
}

// EqualsOrNewer returns true if v is equal to or newer than other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// UnmarshalText lets Version be decoded directly from YAML scalars.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalText returns the String form.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
