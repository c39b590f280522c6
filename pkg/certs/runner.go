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

package certs

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/tetratelabs/istio/pkg/defaults"
)

// Runner executes the certificate tool. Dir is the working directory
// the command runs in; every path argument is relative to it.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// Result is the outcome of one tool invocation.
type Result struct {
	Command  string
	ExitCode int
	Output   string
	Duration time.Duration
}

// ExecRunner runs openssl through os/exec.
type ExecRunner struct {
	// Binary is the openssl executable. Defaults to "openssl" on PATH.
	Binary string
	// Timeout bounds each invocation. Defaults to defaults.OpensslTimeout.
	Timeout time.Duration
}

// Run executes the tool and returns its combined output. A non-zero exit
// status is returned as an error together with the populated Result.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	binary := r.Binary
	if binary == "" {
		binary = defaults.OpensslBinary
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = defaults.OpensslTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Command:  binary + " " + strings.Join(args, " "),
		ExitCode: exitCode(cmd, err),
		Output:   strings.TrimSpace(out.String()),
		Duration: time.Since(start),
	}

	slog.Debug("certificate tool finished",
		"command", res.Command,
		"exit_code", res.ExitCode,
		"duration", res.Duration.Round(time.Millisecond),
	)

	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%s: %w", res.Command, ctx.Err())
		}
		return res, fmt.Errorf("%s: %w", res.Command, err)
	}
	return res, nil
}

func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
