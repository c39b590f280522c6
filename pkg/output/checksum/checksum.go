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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// Mismatch describes a file whose content no longer matches its checksum.
type Mismatch struct {
	Path   string
	Want   string
	Got    string
	Reason string
}

func (m Mismatch) String() string {
	if m.Reason != "" {
		return fmt.Sprintf("%s: %s", m.Path, m.Reason)
	}
	return fmt.Sprintf("%s: checksum %s, want %s", m.Path, m.Got, m.Want)
}

// GenerateChecksums creates a checksums.txt file containing SHA256 checksums
// for all provided files. Paths are written relative to dir, with forward
// slashes, sorted so that the file is identical across runs.
//
// Returns an error if the context is canceled, any file cannot be read,
// or the checksums file cannot be written.
func GenerateChecksums(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	checksums := make([]string, 0, len(files))

	for _, file := range files {
		sum, err := fileSum(file)
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			// If relative path fails, use absolute path
			relPath = file
		}

		checksums = append(checksums, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(relPath)))
	}

	slices.SortFunc(checksums, func(a, b string) int {
		return strings.Compare(a[66:], b[66:])
	})

	checksumPath := GetChecksumFilePath(dir)
	content := strings.Join(checksums, "\n") + "\n"

	if err := os.WriteFile(checksumPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(checksums),
		"path", checksumPath,
	)

	return nil
}

// Verify re-hashes every file listed in dir's checksums.txt and reports the
// ones that are missing or changed.
func Verify(ctx context.Context, dir string) ([]Mismatch, error) {
	data, err := os.ReadFile(GetChecksumFilePath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}

	var mismatches []Mismatch
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		want, rel, ok := strings.Cut(text, "  ")
		if !ok || len(want) != sha256.Size*2 {
			return nil, fmt.Errorf("%s:%d: malformed checksum line", ChecksumFileName, line)
		}
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return nil, fmt.Errorf("%s:%d: path %q escapes %s", ChecksumFileName, line, rel, dir)
		}

		got, err := fileSum(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			mismatches = append(mismatches, Mismatch{Path: rel, Want: want, Reason: "missing or unreadable"})
			continue
		}
		if got != want {
			mismatches = append(mismatches, Mismatch{Path: rel, Want: want, Got: got})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan checksums: %w", err)
	}
	return mismatches, nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given directory.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}

func fileSum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
