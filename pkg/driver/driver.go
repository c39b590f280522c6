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

package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tetratelabs/istio/pkg/certs"
	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/output"
	"github.com/tetratelabs/istio/pkg/render"
)

// Options configure one driver invocation.
type Options struct {
	// ConfigPath is the YAML configuration file. Required.
	ConfigPath string

	// Folder is the output root. Required; the CLI defaults it to the
	// current unix timestamp.
	Folder string

	// TemplatesDir optionally overrides embedded templates by identifier.
	TemplatesDir string

	// Openssl is the certificate tool binary. Ignored when Runner is set.
	Openssl string

	// Runner replaces the openssl runner, mainly for tests.
	Runner certs.Runner

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string

	// Password is the TSB admin password used by the ServiceRoute editor.
	Password string

	// Progress receives human-readable progress lines. Defaults to io.Discard.
	Progress io.Writer
}

func (o Options) runner() certs.Runner {
	if o.Runner != nil {
		return o.Runner
	}
	return certs.ExecRunner{Binary: o.Openssl, Timeout: defaults.OpensslTimeout}
}

func (o Options) progress() io.Writer {
	if o.Progress == nil {
		return io.Discard
	}
	return o.Progress
}

// Func is the signature shared by every driver.
type Func func(ctx context.Context, opts Options) (*output.Summary, error)

// editorSettings parameterize the bookinfo ServiceRoute editor.
type editorSettings struct {
	password    string
	provider    string
	tctlVersion string
}

// run is the state of one driver invocation.
type run struct {
	opts     Options
	app      appProfile
	org      string
	title    string
	editor   *editorSettings
	tree     *output.Tree
	renderer *render.Renderer
	certs    *certs.Provisioner
	cleanup  *CleanupPlan
	metrics  *runMetrics

	instances int
}

// execute prepares the output tree, runs body and publishes the result.
// The configuration must already be loaded and validated: nothing is
// created on disk before this point.
func execute(ctx context.Context, opts Options, app appProfile, org string, raw []byte,
	editor *editorSettings, body func(context.Context, *run) error) (*output.Summary, error) {
	if opts.Folder == "" {
		return nil, errors.New(errors.ErrCodeFilesystem, "output folder is required")
	}

	var ropts []render.Option
	if opts.TemplatesDir != "" {
		ropts = append(ropts, render.WithOverrideDir(opts.TemplatesDir))
	}
	renderer, err := render.New(ropts...)
	if err != nil {
		return nil, err
	}

	tree, err := output.NewTree(opts.Folder)
	if err != nil {
		return nil, err
	}

	prov, err := certs.NewProvisioner(tree.RootPath(defaults.CertDir), opts.runner())
	if err != nil {
		tree.Abort()
		return nil, err
	}

	r := &run{
		opts:     opts,
		app:      app,
		org:      org,
		title:    cases.Title(language.English).String(app.app.String()),
		editor:   editor,
		tree:     tree,
		renderer: renderer,
		certs:    prov,
		cleanup:  NewCleanupPlan(),
		metrics:  newRunMetrics(app.app),
	}

	sum, err := r.execute(ctx, raw, body)
	if err != nil {
		tree.Abort()
		slog.Debug("run aborted", "app", app.app, "run_id", tree.RunID(), "error", err)
		return nil, err
	}
	return sum, nil
}

func (r *run) execute(ctx context.Context, raw []byte, body func(context.Context, *run) error) (*output.Summary, error) {
	slog.Debug("run started",
		"app", r.app.app,
		"run_id", r.tree.RunID(),
		"config", r.opts.ConfigPath,
		"folder", r.tree.Root(),
	)

	if err := r.tree.WriteFile(defaults.ConfigFile, raw, 0o644); err != nil {
		return nil, err
	}
	if _, err := r.certs.EnsureRootCA(ctx); err != nil {
		return nil, err
	}
	if err := body(ctx, r); err != nil {
		return nil, err
	}
	if err := r.tree.WriteFile(defaults.CleanupFile, r.cleanup.Script(), 0o755); err != nil {
		return nil, err
	}

	sum, err := r.tree.Commit(ctx)
	if err != nil {
		return nil, err
	}
	sum.Instances = r.instances
	sum.CertsGenerated, sum.CertsReused = r.certs.Stats()

	if r.opts.MetricsFile != "" {
		r.metrics.observe(sum)
		if err := r.metrics.writeTextfile(r.opts.MetricsFile); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
				"failed to write metrics file", err, map[string]any{"path": r.opts.MetricsFile})
		}
	}

	slog.Info("fixtures generated",
		"app", r.app.app,
		"folder", sum.OutputDir,
		"instances", sum.Instances,
		"files", len(sum.Files),
		"certs_generated", sum.CertsGenerated,
		"certs_reused", sum.CertsReused,
	)
	return sum, nil
}

func (r *run) printf(format string, args ...any) {
	fmt.Fprintf(r.opts.progress(), format+"\n", args...)
}

func (r *run) render(id string, params render.Params, rel string) error {
	if err := r.tree.Render(r.renderer, id, params, rel); err != nil {
		return err
	}
	r.metrics.renders.WithLabelValues(id).Inc()
	return nil
}

// renderTSB renders a TSB API object, which tctl deletes on cleanup.
func (r *run) renderTSB(id string, params render.Params, rel string) error {
	if err := r.render(id, params, rel); err != nil {
		return err
	}
	r.cleanup.DeleteTSB(rel)
	return nil
}

// stage lets write produce rel inside the staging directory.
func (r *run) stage(rel string, write func(path string) error) error {
	path, err := r.tree.Staged(rel)
	if err != nil {
		return err
	}
	if err := write(path); err != nil {
		return err
	}
	return r.tree.Track(rel)
}

func (r *run) renderTenant(tenant int, rel string) error {
	return r.renderTSB(render.TSBTenant, render.Params{
		"orgName":    r.org,
		"tenantName": naming.TenantName(tenant),
	}, rel)
}
