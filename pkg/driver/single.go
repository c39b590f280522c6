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
	"path"

	"github.com/tetratelabs/istio/pkg/config"
	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/output"
)

const (
	singleGateway = "tsb-gateway"
	singleSecret  = "wildcard-credential"
)

// BookinfoSingle generates count bookinfo instances sharing one namespace,
// workspace and gateway.
func BookinfoSingle(ctx context.Context, opts Options) (*output.Summary, error) {
	return single(ctx, opts, bookinfo)
}

// HttpbinSingle generates count httpbin instances sharing one namespace,
// workspace and gateway.
func HttpbinSingle(ctx context.Context, opts Options) (*output.Summary, error) {
	return single(ctx, opts, httpbin)
}

func single(ctx context.Context, opts Options, app appProfile) (*output.Summary, error) {
	doc, err := config.LoadSingle(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := doc.Config

	s, err := singleScope(cfg, app)
	if err != nil {
		return nil, err
	}

	return execute(ctx, opts, app, cfg.Org, doc.Raw, nil, func(ctx context.Context, r *run) error {
		if err := r.renderTenant(s.id.TenantID, path.Join(defaults.TSBObjectsDir, "tenant.yaml")); err != nil {
			return err
		}
		return r.generate(ctx, s)
	})
}

// singleScope derives and validates the shared identity of a single run.
func singleScope(cfg *config.Single, app appProfile) (*scope, error) {
	id := naming.Identity{
		App:     app.app,
		Cluster: cfg.Cluster,
		Mode:    cfg.RoutingMode(),
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s := &scope{
		id:             id,
		single:         true,
		tsbDir:         defaults.TSBObjectsDir,
		modeDir:        defaults.TSBObjectsDir,
		k8sDir:         defaults.K8sObjectsDir,
		gateway:        singleGateway,
		secret:         singleSecret,
		namespacesFile: "01namespace.yaml",
		caSecretFile:   path.Join(defaults.K8sObjectsDir, "trafficgen-secret.yaml"),
		ipType:         cfg.TrafficGenIPType,
	}
	for i := range cfg.Count {
		s.units = append(s.units, unit{
			suffix:   fmt.Sprintf("-%d", i),
			hostname: fmt.Sprintf("%s-%d.%s", app.service, i, naming.HostDomain),
		})
	}
	return s, nil
}
