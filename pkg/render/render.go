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

package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/tetratelabs/istio/pkg/errors"
)

//go:embed templates/tsb/*.yaml templates/tsb/bridged/*.yaml templates/tsb/direct/*.yaml templates/k8s/*.yaml templates/k8s/*.sh
var templatesFS embed.FS

const templateRoot = "templates"

// Params is the named parameter set a template is executed with. Any key a
// template references must be present.
type Params map[string]any

// With returns a copy of p extended with extra. Keys in extra win.
func (p Params) With(extra Params) Params {
	out := make(Params, len(p)+len(extra))
	maps.Copy(out, p)
	maps.Copy(out, extra)
	return out
}

// Renderer executes templates by identifier. Identifiers are slash separated
// paths relative to the template root, e.g. "tsb/direct/vs.yaml".
type Renderer struct {
	source      fs.FS
	overrideDir string
	cache       map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithOverrideDir layers an on-disk template directory over the embedded
// set. A template present in dir replaces the embedded one with the same
// identifier; missing ones fall back to the embedded set.
func WithOverrideDir(dir string) Option {
	return func(r *Renderer) {
		r.overrideDir = dir
	}
}

// WithFS replaces the embedded template set entirely. Used by tests.
func WithFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.source = fsys
	}
}

// New creates a Renderer over the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, templateRoot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to open embedded templates", err)
	}
	r := &Renderer{
		source: sub,
		cache:  make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.overrideDir != "" {
		info, statErr := os.Stat(r.overrideDir)
		if statErr != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeTemplateRender,
				"template directory not found", statErr, map[string]any{"dir": r.overrideDir})
		}
		if !info.IsDir() {
			return nil, errors.NewWithContext(errors.ErrCodeTemplateRender,
				"template path is not a directory", map[string]any{"dir": r.overrideDir})
		}
		slog.Debug("using template override directory", "dir", r.overrideDir)
	}
	return r, nil
}

// IDs lists every template identifier available from the embedded set.
func IDs() ([]string, error) {
	var ids []string
	err := fs.WalkDir(templatesFS, templateRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			ids = append(ids, strings.TrimPrefix(path, templateRoot+"/"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Renderer) read(id string) ([]byte, string, error) {
	if r.overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(r.overrideDir, filepath.FromSlash(id)))
		if err == nil {
			return data, "external", nil
		}
		if !os.IsNotExist(err) {
			return nil, "", err
		}
	}
	data, err := fs.ReadFile(r.source, id)
	return data, "embedded", err
}

func (r *Renderer) lookup(id string) (*template.Template, error) {
	if t, ok := r.cache[id]; ok {
		return t, nil
	}

	if !fs.ValidPath(id) {
		return nil, errors.NewWithContext(errors.ErrCodeTemplateRender,
			fmt.Sprintf("invalid template id %q", id), map[string]any{"template": id})
	}

	data, source, err := r.read(id)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeTemplateRender,
			fmt.Sprintf("template %q not found", id), err, map[string]any{"template": id})
	}

	t, err := template.New(id).Funcs(funcMap()).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeTemplateRender,
			fmt.Sprintf("failed to parse template %q", id), err, map[string]any{"template": id})
	}

	slog.Debug("template loaded", "template", id, "source", source)
	r.cache[id] = t
	return t, nil
}

// Render executes the template id with params and returns the text.
func (r *Renderer) Render(id string, params Params) (string, error) {
	t, err := r.lookup(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any(params)); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTemplateRender,
			fmt.Sprintf("failed to execute template %q", id), err, map[string]any{"template": id})
	}
	return buf.String(), nil
}

// RenderToFile renders id and writes the result to path, creating parent
// directories and replacing any existing file.
func (r *Renderer) RenderToFile(id string, params Params, path string) error {
	content, err := r.Render(id, params)
	if err != nil {
		return err
	}
	return WriteFile(path, []byte(content), 0o644)
}

// WriteFile writes content to path after creating its parent directory.
func WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to create directory", err, map[string]any{"path": filepath.Dir(path)})
	}
	if err := os.WriteFile(path, content, perm); err != nil {
		return errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to write file", err, map[string]any{"path": path})
	}
	return nil
}
