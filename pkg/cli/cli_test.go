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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/istio/pkg/certs"
	"github.com/tetratelabs/istio/pkg/logging"
)

// fakeOpenssl writes a placeholder file for every -keyout and -out argument.
type fakeOpenssl struct{}

func (fakeOpenssl) Run(_ context.Context, dir string, args ...string) (*certs.Result, error) {
	res := &certs.Result{Command: "openssl " + strings.Join(args, " ")}
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-keyout" || args[i] == "-out" {
			content := fmt.Sprintf("fake %s\n", args[i+1])
			if err := os.WriteFile(filepath.Join(dir, args[i+1]), []byte(content), 0o600); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

const singleConfig = `count: 1
org: acme
cluster: c1
mode: direct
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newRootCmd(&out, fakeOpenssl{}).Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func hasName(flag cli.Flag, name string) bool {
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{}, nil)

	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
		if c.Action == nil {
			t.Errorf("command %q has no action", c.Name)
		}
	}
	assert.ElementsMatch(t, []string{"bookinfo", "bookinfo-fleet", "httpbin", "httpbin-fleet", "diff", "verify", "templates"}, names)
}

func TestGeneratorFlags(t *testing.T) {
	tests := []struct {
		cmd          *cli.Command
		wantPassword bool
	}{
		{bookinfoCmd(nil), false},
		{bookinfoFleetCmd(nil), true},
		{httpbinCmd(nil), false},
		{httpbinFleetCmd(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name, func(t *testing.T) {
			for _, want := range []string{"config", "folder", "templates", "openssl", "output", "format", "metrics-file"} {
				found := false
				for _, f := range tt.cmd.Flags {
					if hasName(f, want) {
						found = true
						break
					}
				}
				assert.True(t, found, "flag %q not found", want)
			}

			password := false
			for _, f := range tt.cmd.Flags {
				if hasName(f, "password") {
					password = true
				}
			}
			assert.Equal(t, tt.wantPassword, password)
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    logging.Format
		wantErr bool
	}{
		{name: "json", format: "json", want: logging.FormatJSON},
		{name: "text", format: "text", want: logging.FormatText},
		{name: "unknown", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-format", Value: tt.format},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseLogFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestDefaultFolder(t *testing.T) {
	assert.Equal(t, "1718000000", defaultFolder(time.Unix(1718000000, 0)))
}

func TestGenerateAndVerify(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "httpbin.yaml")
	writeFile(t, cfg, singleConfig)
	folder := filepath.Join(dir, "out")

	out, err := runCLI(t, "--log-level", "error", "httpbin", "--config", cfg, "--folder", folder)
	require.NoError(t, err)
	assert.Contains(t, out, "Installing Httpbin")
	assert.Contains(t, out, "Generated 1 instances")
	assert.FileExists(t, filepath.Join(folder, "checksums.txt"))

	out, err = runCLI(t, "verify", folder)
	require.NoError(t, err)
	assert.Contains(t, out, "all checksums match")

	require.NoError(t, os.WriteFile(filepath.Join(folder, "cleanup.sh"), []byte("#!/bin/sh\n"), 0o755))
	out, err = runCLI(t, "verify", folder)
	require.ErrorIs(t, err, errChecksumMismatch)
	assert.Contains(t, out, "cleanup.sh")
}

func TestGenerateWritesSummary(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "httpbin.yaml")
	writeFile(t, cfg, singleConfig)
	summary := filepath.Join(dir, "summary.json")

	_, err := runCLI(t, "httpbin", "--config", cfg, "--folder", filepath.Join(dir, "out"),
		"--output", summary, "--format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"instances": 1`)
	assert.Contains(t, string(data), `"checksums.txt"`)
}

func TestGenerateConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "httpbin.yaml")
	writeFile(t, cfg, singleConfig)
	t.Setenv("TSBUTIL_CONFIG", cfg)
	t.Setenv("TSBUTIL_FOLDER", filepath.Join(dir, "env-out"))

	_, err := runCLI(t, "httpbin")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "env-out", "k8s-objects"))
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "count: 1\norg: acme\ncluster: c1\nmode: sideways\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing config flag", args: []string{"bookinfo", "--folder", filepath.Join(dir, "a")}},
		{name: "config not found", args: []string{"bookinfo", "--config", filepath.Join(dir, "nope.yaml"), "--folder", filepath.Join(dir, "b")}},
		{name: "invalid mode", args: []string{"bookinfo", "--config", bad, "--folder", filepath.Join(dir, "c")}},
		{name: "invalid summary format", args: []string{"httpbin", "--config", bad, "--format", "xml"}},
		{name: "invalid log format", args: []string{"--log-format", "xml", "bookinfo", "--config", bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
	assert.NoDirExists(t, filepath.Join(dir, "c"))
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left")
	right := filepath.Join(dir, "right")
	for _, root := range []string{left, right} {
		writeFile(t, filepath.Join(root, "k8s-objects", "c1-d0", "ingress.yaml"), "kind: Service\n")
		writeFile(t, filepath.Join(root, "cert", "ca.crt"), root)
	}

	out, err := runCLI(t, "diff", left, right)
	require.NoError(t, err)
	assert.Contains(t, out, "trees are identical")

	writeFile(t, filepath.Join(right, "k8s-objects", "c1-d0", "ingress.yaml"), "kind: Secret\n")
	writeFile(t, filepath.Join(right, "extra.yaml"), "x\n")
	out, err = runCLI(t, "diff", left, right)
	require.ErrorIs(t, err, errTreesDiffer)
	assert.Contains(t, out, "content differs: k8s-objects/c1-d0/ingress.yaml")
	assert.Contains(t, out, "only in actual: extra.yaml")

	_, err = runCLI(t, "diff", left)
	assert.Error(t, err)
}

func TestDiffIgnore(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left")
	right := filepath.Join(dir, "right")
	writeFile(t, filepath.Join(left, "config.yaml"), "a\n")
	writeFile(t, filepath.Join(right, "config.yaml"), "a\n")
	writeFile(t, filepath.Join(left, "cert", "ca.crt"), "left\n")
	writeFile(t, filepath.Join(right, "cert", "ca.crt"), "right\n")

	_, err := runCLI(t, "diff", "--ignore", "none", left, right)
	require.ErrorIs(t, err, errTreesDiffer)
}

func TestTemplatesCommand(t *testing.T) {
	out, err := runCLI(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "tsb/tenant.yaml")
	assert.Contains(t, out, "tsb/direct/")
	assert.Contains(t, out, "k8s/traffic-gen.sh")
}
