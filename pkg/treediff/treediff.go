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

package treediff

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/errors"
)

// DefaultIgnore lists the base names skipped unless overridden.
var DefaultIgnore = []string{defaults.CertDir}

// Mismatch is a file present on both sides with different content.
type Mismatch struct {
	Path string
	// Diff is a line diff, expected (-) against actual (+).
	Diff string
}

// Report is the outcome of Compare. Paths are slash separated and relative
// to the compared roots.
type Report struct {
	LeftOnly   []string
	RightOnly  []string
	Mismatches []Mismatch
}

// Equal reports whether the trees matched.
func (r *Report) Equal() bool {
	return len(r.LeftOnly) == 0 && len(r.RightOnly) == 0 && len(r.Mismatches) == 0
}

func (r *Report) String() string {
	if r.Equal() {
		return "trees are identical\n"
	}
	var b strings.Builder
	for _, p := range r.LeftOnly {
		fmt.Fprintf(&b, "only in expected: %s\n", p)
	}
	for _, p := range r.RightOnly {
		fmt.Fprintf(&b, "only in actual: %s\n", p)
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "content differs: %s\n%s", m.Path, m.Diff)
	}
	return b.String()
}

type options struct {
	ignore []string
}

// Option configures Compare.
type Option func(*options)

// WithIgnore replaces the ignored base names.
func WithIgnore(names ...string) Option {
	return func(o *options) {
		o.ignore = names
	}
}

// Compare walks both trees and reports every difference.
func Compare(expected, actual string, opts ...Option) (*Report, error) {
	o := &options{ignore: DefaultIgnore}
	for _, opt := range opts {
		opt(o)
	}

	left, err := list(expected, o.ignore)
	if err != nil {
		return nil, err
	}
	right, err := list(actual, o.ignore)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, p := range left {
		if _, ok := slices.BinarySearch(right, p); !ok {
			report.LeftOnly = append(report.LeftOnly, p)
			continue
		}
		m, err := compareFile(expected, actual, p)
		if err != nil {
			return nil, err
		}
		if m != nil {
			report.Mismatches = append(report.Mismatches, *m)
		}
	}
	for _, p := range right {
		if _, ok := slices.BinarySearch(left, p); !ok {
			report.RightOnly = append(report.RightOnly, p)
		}
	}
	return report, nil
}

// list returns the sorted slash-relative paths of regular files under root.
func list(root string, ignore []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to open tree", err, map[string]any{"root": root})
	}
	if !info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeFilesystem,
			"tree root is not a directory", map[string]any{"root": root})
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && slices.Contains(ignore, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to walk tree", err, map[string]any{"root": root})
	}
	slices.Sort(files)
	return files, nil
}

func compareFile(expected, actual, rel string) (*Mismatch, error) {
	want, err := os.ReadFile(filepath.Join(expected, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to read expected file", err, map[string]any{"path": rel})
	}
	got, err := os.ReadFile(filepath.Join(actual, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to read actual file", err, map[string]any{"path": rel})
	}
	if bytes.Equal(want, got) {
		return nil, nil
	}
	return &Mismatch{
		Path: rel,
		Diff: cmp.Diff(strings.Split(string(want), "\n"), strings.Split(string(got), "\n")),
	}, nil
}
