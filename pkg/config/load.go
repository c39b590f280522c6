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

package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tetratelabs/istio/pkg/errors"
)

// validator is implemented by every document shape the loader accepts.
type validator interface {
	Validate() error
}

// Document is a loaded configuration together with the raw bytes it was
// decoded from. The drivers copy Raw verbatim into the output tree.
type Document[T any] struct {
	Config *T
	Raw    []byte
	Path   string
}

// LoadFleet reads and validates a multi-tenant fleet configuration.
func LoadFleet(path string) (*Document[Fleet], error) {
	return load[Fleet](path)
}

// LoadSingle reads and validates a single-namespace configuration.
func LoadSingle(path string) (*Document[Single], error) {
	return load[Single](path)
}

func load[T any, PT interface {
	*T
	validator
}](path string) (*Document[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfigIO,
			"failed to read config file", err, map[string]any{"path": path})
	}

	cfg, err := decode[T, PT](data)
	if err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded", "path", path, "bytes", len(data))
	return &Document[T]{Config: cfg, Raw: data, Path: path}, nil
}

func decode[T any, PT interface {
	*T
	validator
}](data []byte) (*T, error) {
	var cfg T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeConfigValidation, "config file is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeConfigValidation, "failed to parse config YAML", err)
	}

	if err := PT(&cfg).Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fieldError builds a CONFIG_VALIDATION error pointing at the offending field.
func fieldError(field, format string, args ...any) error {
	return errors.NewWithContext(errors.ErrCodeConfigValidation,
		fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)),
		map[string]any{"field": field})
}

// wrapField attaches a field path to an error raised by a helper validator.
func wrapField(field string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeConfigValidation,
		field, err, map[string]any{"field": field})
}
