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

// BookinfoFleet generates one bookinfo instance per replica unit of every
// cluster, each in its own workspace and namespaces, plus the ServiceRoute
// editor that keeps shifting reviews traffic.
func BookinfoFleet(ctx context.Context, opts Options) (*output.Summary, error) {
	return fleet(ctx, opts, bookinfo)
}

// HttpbinFleet generates one httpbin instance per replica unit of every
// cluster.
func HttpbinFleet(ctx context.Context, opts Options) (*output.Summary, error) {
	return fleet(ctx, opts, httpbin)
}

func fleet(ctx context.Context, opts Options, app appProfile) (*output.Summary, error) {
	doc, err := config.LoadFleet(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := doc.Config

	var editor *editorSettings
	if app.versioned {
		password := opts.Password
		if password == "" {
			password = defaults.AdminPassword
		}
		editor = &editorSettings{
			password:    password,
			provider:    string(cfg.Provider),
			tctlVersion: cfg.Tctl().String(),
		}
	}

	scopes, err := fleetScopes(cfg, app)
	if err != nil {
		return nil, err
	}

	return execute(ctx, opts, app, cfg.Organisation, doc.Raw, editor, func(ctx context.Context, r *run) error {
		for _, tenant := range cfg.Tenants() {
			rel := path.Join(defaults.TSBObjectsDir, fmt.Sprintf("tenant%d.yaml", tenant))
			if err := r.renderTenant(tenant, rel); err != nil {
				return err
			}
		}
		for _, s := range scopes {
			if err := r.generate(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

// fleetScopes derives and validates the identity of every unit in the
// fleet, in generation order.
func fleetScopes(cfg *config.Fleet, app appProfile) ([]*scope, error) {
	total := 0
	for _, cluster := range cfg.Clusters {
		total += cluster.Instances()
	}

	scopes := make([]*scope, 0, total)
	for _, cluster := range cfg.Clusters {
		// seq numbers the units of each mode on the cluster, across replicas
		seq := map[naming.Mode]int{}
		for _, replica := range cluster.Replicas {
			for _, mode := range replica.Units() {
				id := naming.Identity{
					App:      app.app,
					TenantID: replica.TenantID,
					Cluster:  cluster.Name,
					Seq:      seq[mode],
					Mode:     mode,
				}
				if err := id.Validate(); err != nil {
					return nil, err
				}
				scopes = append(scopes, fleetScope(id, app, cluster.TrafficGenIPType))
				seq[mode]++
			}
		}
	}
	return scopes, nil
}

func fleetScope(id naming.Identity, app appProfile, ipType config.TrafficGenIPType) *scope {
	key := id.Key()
	return &scope{
		id:             id,
		tsbDir:         path.Join(defaults.TSBObjectsDir, key),
		modeDir:        path.Join(defaults.TSBObjectsDir, key, id.Mode.String()),
		k8sDir:         path.Join(defaults.K8sObjectsDir, key),
		editorDir:      path.Join(defaults.TSBK8sObjectsDir, key),
		gateway:        id.GatewayName(),
		secret:         id.SecretName(),
		namespacesFile: app.namespacesFile,
		caSecretFile:   path.Join(defaults.K8sObjectsDir, key, id.FrontNamespace()+"-secret.yaml"),
		ipType:         ipType,
		units:          []unit{{hostname: id.Hostname()}},
	}
}
