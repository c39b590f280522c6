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
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/istio/pkg/certs"
	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/driver"
	"github.com/tetratelabs/istio/pkg/output"
	"github.com/tetratelabs/istio/pkg/serializer"
)

// generator describes one generator command.
type generator struct {
	name        string
	usage       string
	description string
	run         driver.Func
	password    bool
}

func bookinfoCmd(runner certs.Runner) *cli.Command {
	return generateCmd(generator{
		name:  "bookinfo",
		usage: "Generate bookinfo instances for a single cluster",
		description: `Generates count bookinfo instances on one cluster in one mode.

Configuration:
  count: 2
  org: acme
  cluster: c1
  mode: direct        # or bridged

Example:
  tsbutil bookinfo --config bookinfo.yaml --folder out`,
		run: driver.BookinfoSingle,
	}, runner)
}

func bookinfoFleetCmd(runner certs.Runner) *cli.Command {
	return generateCmd(generator{
		name:  "bookinfo-fleet",
		usage: "Generate bookinfo instances across tenants and clusters",
		description: `Generates bookinfo instances for every cluster and replica of a fleet
configuration, including the ServiceRoute editor jobs.

Configuration:
  organisation: acme
  tenantCount: 2
  provider: aws
  tctlVersion: 1.4.0
  config:
    - clusterName: c1
      trafficGenIPType: external
      replicas:
        - tenantId: 0
          bridged: 1
          direct: 1

Example:
  tsbutil bookinfo-fleet --config fleet.yaml --password secret`,
		run:      driver.BookinfoFleet,
		password: true,
	}, runner)
}

func httpbinCmd(runner certs.Runner) *cli.Command {
	return generateCmd(generator{
		name:        "httpbin",
		usage:       "Generate httpbin instances for a single cluster",
		description: "Generates count httpbin instances on one cluster in one mode.",
		run:         driver.HttpbinSingle,
	}, runner)
}

func httpbinFleetCmd(runner certs.Runner) *cli.Command {
	return generateCmd(generator{
		name:        "httpbin-fleet",
		usage:       "Generate httpbin instances across tenants and clusters",
		description: "Generates httpbin instances for every cluster and replica of a fleet configuration.",
		run:         driver.HttpbinFleet,
	}, runner)
}

func generateFlags(password bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Required: true,
			Usage:    "Path to the YAML configuration file",
			Sources:  cli.EnvVars(envPrefix + "CONFIG"),
		},
		&cli.StringFlag{
			Name:    "folder",
			Aliases: []string{"f"},
			Usage:   "Output folder (default: current unix timestamp)",
			Sources: cli.EnvVars(envPrefix + "FOLDER"),
		},
		&cli.StringFlag{
			Name:    "templates",
			Usage:   "Directory whose templates override the embedded ones",
			Sources: cli.EnvVars(envPrefix + "TEMPLATES"),
		},
		&cli.StringFlag{
			Name:    "openssl",
			Value:   defaults.OpensslBinary,
			Usage:   "Path to the openssl binary",
			Sources: cli.EnvVars(envPrefix + "OPENSSL"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Also write the run summary to this file",
			Sources: cli.EnvVars(envPrefix + "OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Value:   string(serializer.FormatYAML),
			Usage:   fmt.Sprintf("Summary file format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Sources: cli.EnvVars(envPrefix + "FORMAT"),
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write run metrics in Prometheus text format to this file",
			Sources: cli.EnvVars(envPrefix + "METRICS_FILE"),
		},
	}
	if password {
		flags = append(flags, &cli.StringFlag{
			Name:    "password",
			Value:   defaults.AdminPassword,
			Usage:   "TSB admin password used by the ServiceRoute editor",
			Sources: cli.EnvVars(envPrefix + "PASSWORD"),
		})
	}
	return flags
}

func generateCmd(g generator, runner certs.Runner) *cli.Command {
	return &cli.Command{
		Name:                  g.name,
		EnableShellCompletion: true,
		Usage:                 g.usage,
		Description:           g.description,
		Flags:                 generateFlags(g.password),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := serializer.Format(cmd.String("format"))
			if format.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", format)
			}
			opts := parseDriverOptions(cmd)
			opts.Runner = runner

			slog.Debug("generating fixtures", "command", g.name, "config", opts.ConfigPath, "folder", opts.Folder)

			sum, err := g.run(ctx, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", g.name, err)
			}
			fmt.Fprintln(opts.Progress, sum.String())

			if path := cmd.String("output"); path != "" {
				return writeSummary(ctx, format, path, sum)
			}
			return nil
		},
	}
}

func writeSummary(ctx context.Context, format serializer.Format, path string, sum *output.Summary) error {
	w, err := serializer.NewFileWriter(format, path)
	if err != nil {
		return err
	}
	if err := w.Serialize(ctx, sum); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return w.Close()
}

// parseDriverOptions maps generator flags onto driver options.
func parseDriverOptions(cmd *cli.Command) driver.Options {
	folder := cmd.String("folder")
	if folder == "" {
		folder = defaultFolder(time.Now())
	}
	return driver.Options{
		ConfigPath:   cmd.String("config"),
		Folder:       folder,
		TemplatesDir: cmd.String("templates"),
		Openssl:      cmd.String("openssl"),
		MetricsFile:  cmd.String("metrics-file"),
		Password:     cmd.String("password"),
		Progress:     cmd.Root().Writer,
	}
}

func defaultFolder(now time.Time) string {
	return strconv.FormatInt(now.Unix(), 10)
}
