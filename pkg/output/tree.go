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

package output

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/manifest"
	"github.com/tetratelabs/istio/pkg/output/checksum"
	"github.com/tetratelabs/istio/pkg/render"
)

// StagingPrefix names the per-run staging directory inside the output root.
const StagingPrefix = ".staging-"

// Tree collects the files of one run in a staging directory and publishes
// them into the output root on Commit. Paths passed to its methods are
// relative to the output root.
//
// Thread-safety: a Tree belongs to a single run and must not be shared.
type Tree struct {
	root    string
	staging string
	runID   string
	start   time.Time

	files []string
	size  int64
	done  bool
}

// NewTree creates the output root (if needed) and a fresh staging directory
// inside it.
func NewTree(root string) (*Tree, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to create output directory", err, map[string]any{"path": root})
	}

	runID := uuid.NewString()
	staging := filepath.Join(root, StagingPrefix+runID)
	if err := os.Mkdir(staging, 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to create staging directory", err, map[string]any{"path": staging})
	}

	slog.Debug("staging directory created", "root", root, "run_id", runID)

	return &Tree{root: root, staging: staging, runID: runID, start: time.Now()}, nil
}

// Root returns the output root.
func (t *Tree) Root() string { return t.root }

// RunID returns the identifier of this run.
func (t *Tree) RunID() string { return t.runID }

// RootPath returns rel resolved against the output root, for content that
// bypasses staging such as the certificate cache.
func (t *Tree) RootPath(rel ...string) string {
	return filepath.Join(append([]string{t.root}, rel...)...)
}

func (t *Tree) stagingPath(rel string) (string, error) {
	if t.done {
		return "", errors.New(errors.ErrCodeInternal, "output tree already committed or aborted")
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsLocal(clean) {
		return "", errors.NewWithContext(errors.ErrCodeFilesystem,
			fmt.Sprintf("path %q escapes the output directory", rel), map[string]any{"path": rel})
	}
	return filepath.Join(t.staging, clean), nil
}

func (t *Tree) track(rel string, n int) {
	t.files = append(t.files, filepath.ToSlash(filepath.Clean(rel)))
	t.size += int64(n)
	slog.Debug("file written", "path", rel, "size_bytes", n)
}

// WriteFile writes content to rel.
func (t *Tree) WriteFile(rel string, content []byte, perm os.FileMode) error {
	path, err := t.stagingPath(rel)
	if err != nil {
		return err
	}
	if err := render.WriteFile(path, content, perm); err != nil {
		return err
	}
	t.track(rel, len(content))
	return nil
}

// Render renders template id with params into rel.
func (t *Tree) Render(r *render.Renderer, id string, params render.Params, rel string) error {
	content, err := r.Render(id, params)
	if err != nil {
		return err
	}
	return t.WriteFile(rel, []byte(content), 0o644)
}

// WriteObjects serializes typed Kubernetes objects into rel.
func (t *Tree) WriteObjects(rel string, objs ...any) error {
	data, err := manifest.Marshal(objs...)
	if err != nil {
		return err
	}
	return t.WriteFile(rel, data, 0o644)
}

// Staged returns the absolute staging path of rel, for producers such as
// the certificate secret renderers that write files themselves. Call Track
// after the file was written.
func (t *Tree) Staged(rel string) (string, error) {
	return t.stagingPath(rel)
}

// Track records a file written through Staged.
func (t *Tree) Track(rel string) error {
	path, err := t.stagingPath(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeFilesystem,
			"tracked file does not exist", err, map[string]any{"path": rel})
	}
	t.track(rel, int(info.Size()))
	return nil
}

// Files returns the paths written so far, sorted.
func (t *Tree) Files() []string {
	out := slices.Clone(t.files)
	slices.Sort(out)
	return slices.Compact(out)
}

// Commit writes checksums.txt, moves every staged file into the output
// root, replacing files of the same name, and removes the staging
// directory.
func (t *Tree) Commit(ctx context.Context) (*Summary, error) {
	if t.done {
		return nil, errors.New(errors.ErrCodeInternal, "output tree already committed or aborted")
	}
	if err := ctx.Err(); err != nil {
		t.Abort()
		return nil, errors.Wrap(errors.ErrCodeInternal, "run cancelled before commit", err)
	}

	files := t.Files()
	abs := make([]string, len(files))
	for i, f := range files {
		abs[i] = filepath.Join(t.staging, filepath.FromSlash(f))
	}
	if err := checksum.GenerateChecksums(ctx, t.staging, abs); err != nil {
		t.Abort()
		return nil, errors.Wrap(errors.ErrCodeFilesystem, "failed to generate checksums", err)
	}

	err := filepath.WalkDir(t.staging, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(t.staging, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(t.root, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		return os.Rename(path, dst)
	})
	if err != nil {
		t.Abort()
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to publish output", err, map[string]any{"root": t.root})
	}

	if err := os.RemoveAll(t.staging); err != nil {
		slog.Warn("failed to remove staging directory", "path", t.staging, "error", err)
	}
	t.done = true

	sum := &Summary{
		RunID:     t.runID,
		OutputDir: t.root,
		Files:     append(files, checksum.ChecksumFileName),
		TotalSize: t.size,
		Duration:  time.Since(t.start),
	}

	slog.Debug("output committed",
		"root", t.root,
		"files", len(sum.Files),
		"size_bytes", sum.TotalSize,
		"duration", sum.Duration.Round(time.Millisecond),
	)
	return sum, nil
}

// Abort discards the staging directory. It is safe to call after Commit.
func (t *Tree) Abort() {
	if t.done {
		return
	}
	t.done = true
	if err := os.RemoveAll(t.staging); err != nil {
		slog.Warn("failed to remove staging directory", "path", t.staging, "error", err)
		return
	}
	slog.Debug("staging directory removed", "path", t.staging)
}
