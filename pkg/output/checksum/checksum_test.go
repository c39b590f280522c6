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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateChecksums(t *testing.T) {
	t.Parallel()

	t.Run("generates checksums for files", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		file1 := filepath.Join(tmpDir, "file1.txt")
		file2 := filepath.Join(tmpDir, "file2.txt")

		if err := os.WriteFile(file1, []byte("content1"), 0644); err != nil {
			t.Fatalf("failed to create file1: %v", err)
		}
		if err := os.WriteFile(file2, []byte("content2"), 0644); err != nil {
			t.Fatalf("failed to create file2: %v", err)
		}

		// order of the input must not matter
		if err := GenerateChecksums(context.Background(), tmpDir, []string{file2, file1}); err != nil {
			t.Fatalf("GenerateChecksums() error = %v", err)
		}

		data, err := os.ReadFile(GetChecksumFilePath(tmpDir))
		if err != nil {
			t.Fatalf("failed to read checksums.txt: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasSuffix(lines[0], "  file1.txt") || !strings.HasSuffix(lines[1], "  file2.txt") {
			t.Errorf("checksums not sorted by path: %q", lines)
		}
		for _, line := range lines {
			parts := strings.Split(line, "  ")
			if len(parts) != 2 {
				t.Errorf("invalid checksum format: %s", line)
				continue
			}
			if len(parts[0]) != 64 {
				t.Errorf("expected 64 character hash, got %d: %s", len(parts[0]), parts[0])
			}
		}
	})

	t.Run("returns error on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := GenerateChecksums(ctx, t.TempDir(), []string{}); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		nonExistent := filepath.Join(tmpDir, "does-not-exist.txt")

		if err := GenerateChecksums(context.Background(), tmpDir, []string{nonExistent}); err == nil {
			t.Error("expected error for non-existent file")
		}
	})

	t.Run("handles nested files", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "k8s-objects", "c1-0")
		if err := os.MkdirAll(subDir, 0755); err != nil {
			t.Fatalf("failed to create subdir: %v", err)
		}

		nestedFile := filepath.Join(subDir, "role.yaml")
		if err := os.WriteFile(nestedFile, []byte("kind: Role"), 0644); err != nil {
			t.Fatalf("failed to create nested file: %v", err)
		}

		if err := GenerateChecksums(context.Background(), tmpDir, []string{nestedFile}); err != nil {
			t.Fatalf("GenerateChecksums() error = %v", err)
		}

		data, err := os.ReadFile(GetChecksumFilePath(tmpDir))
		if err != nil {
			t.Fatalf("failed to read checksums.txt: %v", err)
		}
		if !strings.Contains(string(data), "k8s-objects/c1-0/role.yaml") {
			t.Errorf("expected relative path k8s-objects/c1-0/role.yaml, got %s", string(data))
		}
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	files := map[string]string{
		"a.yaml":     "kind: A",
		"sub/b.yaml": "kind: B",
		"sub/c.yaml": "kind: C",
	}
	var paths []string
	for rel, content := range files {
		p := filepath.Join(tmpDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	if err := GenerateChecksums(context.Background(), tmpDir, paths); err != nil {
		t.Fatalf("GenerateChecksums() error = %v", err)
	}

	mismatches, err := Verify(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("expected clean tree, got %v", mismatches)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "a.yaml"), []byte("kind: changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(tmpDir, "sub", "c.yaml")); err != nil {
		t.Fatal(err)
	}

	mismatches, err = Verify(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if len(mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", mismatches)
	}
	if mismatches[0].Path != "a.yaml" || mismatches[0].Reason != "" {
		t.Errorf("unexpected first mismatch: %+v", mismatches[0])
	}
	if mismatches[1].Path != "sub/c.yaml" || mismatches[1].Reason == "" {
		t.Errorf("unexpected second mismatch: %+v", mismatches[1])
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.WriteFile(GetChecksumFilePath(tmpDir), []byte("nothex file.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(context.Background(), tmpDir); err == nil {
		t.Error("expected error for malformed checksums file")
	}
}

func TestVerifyRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	sum := strings.Repeat("0", 64)
	for _, rel := range []string{"../outside.yaml", "/etc/hosts", "sub/../../outside.yaml", ""} {
		t.Run(rel, func(t *testing.T) {
			t.Parallel()

			parent := t.TempDir()
			dir := filepath.Join(parent, "out")
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(parent, "outside.yaml"), []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
			line := sum + "  " + rel + "\n"
			if err := os.WriteFile(GetChecksumFilePath(dir), []byte(line), 0644); err != nil {
				t.Fatal(err)
			}

			mismatches, err := Verify(context.Background(), dir)
			if err == nil {
				t.Fatalf("expected error for path %q, got mismatches %v", rel, mismatches)
			}
			if !strings.Contains(err.Error(), "escapes") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetChecksumFilePath(t *testing.T) {
	t.Parallel()

	path := GetChecksumFilePath("/some/output/dir")
	expected := "/some/output/dir/checksums.txt"

	if path != expected {
		t.Errorf("GetChecksumFilePath() = %s, want %s", path, expected)
	}
}
