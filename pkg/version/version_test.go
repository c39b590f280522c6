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
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{name: "plain", input: "1.2.0", want: Version{Major: 1, Minor: 2}},
		{name: "v prefix", input: "v1.4.3", want: Version{Major: 1, Minor: 4, Patch: 3}},
		{name: "rc suffix", input: "1.5.0-rc.1", want: Version{Major: 1, Minor: 5, Extras: "-rc.1"}},
		{name: "build metadata", input: "1.2.0+abc", want: Version{Major: 1, Minor: 2, Extras: "+abc"}},
		{name: "empty", input: "", wantErr: ErrEmptyVersion},
		{name: "major only", input: "1", wantErr: ErrComponentCount},
		{name: "major minor", input: "1.2", wantErr: ErrComponentCount},
		{name: "too many", input: "1.2.3.4", wantErr: ErrComponentCount},
		{name: "letters", input: "1.x.0", wantErr: ErrNonNumeric},
		{name: "empty component", input: "1..0", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	if got := DefaultTctl.String(); got != "1.2.0" {
		t.Errorf("DefaultTctl.String() = %q, want 1.2.0", got)
	}
	if got := MustParseVersion("v1.5.0-rc.1").String(); got != "1.5.0-rc.1" {
		t.Errorf("String() = %q, want 1.5.0-rc.1", got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.2.0", 0},
		{"1.2.0", "1.3.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.2.1", "1.2.0", 1},
		{"1.2.0-rc1", "1.2.0", 0},
	}
	for _, tt := range tests {
		if got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if !MustParseVersion("1.4.0").EqualsOrNewer(DefaultTctl) {
		t.Error("1.4.0 should be newer than the default")
	}
}

func TestUnmarshalText(t *testing.T) {
	var v Version
	if err := v.UnmarshalText([]byte("1.4.2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != NewVersion(1, 4, 2) {
		t.Errorf("got %+v", v)
	}
	if err := v.UnmarshalText([]byte("latest")); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseVersion did not panic on invalid input")
		}
	}()
	MustParseVersion("bogus")
}

// FuzzParseVersion checks that parsed versions render back to a parseable string.
func FuzzParseVersion(f *testing.F) {
	for _, s := range []string{"1.2.0", "v1.2.3", "1.2.0-rc.1", "", "..", "1.2", "1.-2.3", "0.0.0+x"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("String() of %q produced unparseable %q: %v", input, v.String(), err)
		}
		if again.Compare(v) != 0 {
			t.Fatalf("round trip changed %q: %+v vs %+v", input, v, again)
		}
	})
}
