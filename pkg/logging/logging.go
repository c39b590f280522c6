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

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvVarLogLevel overrides the configured level when set.
const EnvVarLogLevel = "LOG_LEVEL"

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseLogLevel converts a case-insensitive level name into a slog.Level.
// Unknown values fall back to INFO.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveLevel prefers LOG_LEVEL over the explicit value.
func resolveLevel(level string) slog.Level {
	if env := os.Getenv(EnvVarLogLevel); env != "" {
		return ParseLogLevel(env)
	}
	return ParseLogLevel(level)
}

// NewLogger builds a logger for the given writer and format.
// Debug level adds source locations.
func NewLogger(w io.Writer, format Format, module, version, level string) *slog.Logger {
	lvl := resolveLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var h slog.Handler
	if format == FormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultLogger installs a logger with the given format as the slog default.
func SetDefaultLogger(format Format, module, version, level string) {
	slog.SetDefault(NewLogger(os.Stderr, format, module, version, level))
}
