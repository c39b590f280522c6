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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/istio/pkg/certs"
	"github.com/tetratelabs/istio/pkg/logging"
)

const (
	name           = "tsbutil"
	versionDefault = "dev"
	envPrefix      = "TSBUTIL_"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command against os.Args. It is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd(os.Stdout, nil).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. A nil runner makes the generators
// invoke the openssl binary.
func newRootCmd(out io.Writer, runner certs.Runner) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Generate TSB and Kubernetes test fixtures",
		Description: `tsbutil generates the manifests, certificates and scripts that deploy
bookinfo or httpbin instances into a Tetrate Service Bridge managed mesh.

Every generator reads a YAML configuration and writes a self-contained
folder: k8s-objects/, tsb-objects/, tsb-k8s-objects/, cert/, config.yaml,
cleanup.sh and checksums.txt.`,
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(envPrefix + "LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   string(logging.FormatJSON),
				Usage:   "log format (json, text)",
				Sources: cli.EnvVars(envPrefix + "LOG_FORMAT"),
			},
		},
		Before: initLogger,
		// Errors are reported by Execute; never exit from inside the library.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			bookinfoCmd(runner),
			bookinfoFleetCmd(runner),
			httpbinCmd(runner),
			httpbinFleetCmd(runner),
			diffCmd(),
			verifyCmd(),
			templatesCmd(),
		},
	}
}

// parseLogFormat validates the --log-format value.
func parseLogFormat(cmd *cli.Command) (logging.Format, error) {
	f := logging.Format(cmd.String("log-format"))
	switch f {
	case logging.FormatJSON, logging.FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format: %q (must be %q or %q)", f, logging.FormatJSON, logging.FormatText)
	}
}

// initLogger configures slog after flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	format, err := parseLogFormat(cmd)
	if err != nil {
		return ctx, err
	}
	level := cmd.String("log-level")
	logging.SetDefaultLogger(format, name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}
