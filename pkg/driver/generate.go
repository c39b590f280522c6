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
	"log/slog"
	"path"
	"strings"

	"github.com/tetratelabs/istio/pkg/certs"
	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/manifest"
	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/render"
)

// generate renders every object of a scope in a fixed order. The scope's
// identity has already been validated.
func (r *run) generate(ctx context.Context, s *scope) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "run cancelled", err)
	}
	mode, ok := modeTable[s.id.Mode]
	if !ok {
		return errors.New(errors.ErrCodeInternal, fmt.Sprintf("no objects registered for mode %s", s.id.Mode))
	}

	label := s.id.Key()
	if s.single {
		label = fmt.Sprintf("x%d in %s", len(s.units), s.namespace(naming.RoleFront))
	}
	r.printf("Installing %s %s (%s)", r.title, label, s.id.Mode)
	slog.Debug("generating instance",
		"app", r.app.app,
		"key", s.id.Key(),
		"tenant", s.id.Tenant(),
		"mode", s.id.Mode,
		"instances", len(s.units),
	)

	p := s.params(r.org, r.app)

	steps := []struct {
		id   string
		file string
	}{
		{render.TSBWorkspace, "workspaces.yaml"},
		{render.TSBGroups, "groups.yaml"},
		{render.TSBPerm, "perm.yaml"},
	}
	for _, step := range steps {
		if err := r.renderTSB(step.id, p, path.Join(s.tsbDir, step.file)); err != nil {
			return err
		}
	}

	if err := r.writeNamespaces(s); err != nil {
		return err
	}
	for _, u := range s.units {
		if err := r.deploy(s, u); err != nil {
			return err
		}
	}

	if err := mode.shared(r, s, p); err != nil {
		return err
	}
	for _, u := range s.units {
		if err := mode.instance(r, s, u, p); err != nil {
			return err
		}
	}

	if err := r.render(render.K8sIngress, p, path.Join(s.k8sDir, "ingress.yaml")); err != nil {
		return err
	}
	if err := r.secrets(ctx, s); err != nil {
		return err
	}
	if err := r.trafficGen(s); err != nil {
		return err
	}
	if r.editor != nil && s.editorDir != "" {
		if err := r.serviceRouteEditor(s, p); err != nil {
			return err
		}
	}

	r.instances += len(s.units)
	r.metrics.instances.WithLabelValues(s.id.Mode.String()).Add(float64(len(s.units)))
	r.printf("%s installed", r.title)
	return nil
}

func (r *run) writeNamespaces(s *scope) error {
	names := s.namespaces(r.app)
	objs := make([]any, 0, len(names))
	for _, ns := range names {
		objs = append(objs, manifest.Namespace(ns))
	}
	if err := r.tree.WriteObjects(path.Join(s.k8sDir, s.namespacesFile), objs...); err != nil {
		return err
	}
	r.cleanup.DeleteNamespace(names...)
	return nil
}

func (r *run) deploy(s *scope, u unit) error {
	if r.app.versioned {
		return r.render(render.K8sBookinfo, render.Params{
			"productNamespace": s.namespace(naming.RoleFront),
			"reviewsNamespace": s.namespace(naming.RoleBack),
			"ratingsNamespace": s.namespace(naming.RoleMiddle),
			"suffix":           u.suffix,
			"detailsHost":      s.fqdn("details"+u.suffix, naming.RoleBack),
			"reviewsHost":      s.fqdn("reviews"+u.suffix, naming.RoleBack),
			"ratingsHost":      s.fqdn("ratings"+u.suffix, naming.RoleMiddle),
		}, s.file(s.k8sDir, "bookinfo", u))
	}
	return r.render(render.K8sHttpbin, render.Params{
		"name":      r.app.service + u.suffix,
		"namespace": s.namespace(naming.RoleFront),
	}, s.file(s.k8sDir, "httpbin", u))
}

// secrets provisions the ingress certificate and writes the TLS secret for
// the gateway and the CA secret the traffic generator trusts.
func (r *run) secrets(ctx context.Context, s *scope) error {
	var (
		bundle certs.Bundle
		err    error
	)
	if s.single {
		bundle, err = r.certs.EnsureWildcardCert(ctx)
	} else {
		bundle, err = r.certs.EnsureLeafCert(ctx, s.units[0].hostname)
	}
	if err != nil {
		return err
	}

	ns := s.namespace(naming.RoleFront)
	err = r.stage(path.Join(s.k8sDir, "secret.yaml"), func(p string) error {
		return certs.RenderSecretManifest(bundle, ns, s.secret, p)
	})
	if err != nil {
		return err
	}
	return r.stage(s.caSecretFile, func(p string) error {
		return certs.RenderCABundleManifest(bundle, ns, s.id.CASecretName(), p)
	})
}

func (r *run) curls(s *scope) []string {
	out := make([]string, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, fmt.Sprintf(
			"curl -s https://%s%s --connect-to %s:443:$IP:$PORT --cacert %s/%s >/dev/null 2>&1",
			u.hostname, r.app.curlPath, u.hostname, manifest.CAMountPath, manifest.CAFileName))
	}
	return out
}

// trafficGen writes the traffic generator RBAC and its Job. The Job's
// script sends one request per instance through the ingress node port.
func (r *run) trafficGen(s *scope) error {
	ns := s.namespace(naming.RoleFront)
	sa := s.id.ServiceAccount()

	if err := r.tree.WriteObjects(path.Join(s.k8sDir, "role.yaml"), manifest.TrafficGenRBAC(ns, sa)...); err != nil {
		return err
	}
	r.cleanup.DeleteClusterObject("clusterrolebinding", sa)
	r.cleanup.DeleteClusterObject("clusterrole", sa)

	script, err := r.renderer.Render(render.K8sTrafficGenScript, render.Params{
		"ipType":      string(s.ipType.AddressType()),
		"serviceName": s.gateway,
		"namespace":   ns,
		"curls":       r.curls(s),
	})
	if err != nil {
		return err
	}
	r.metrics.renders.WithLabelValues(render.K8sTrafficGenScript).Inc()

	job := manifest.TrafficGenJob{
		Name:           "trafficgen",
		Namespace:      ns,
		ServiceAccount: sa,
		CASecret:       s.id.CASecretName(),
		Script:         script,
	}
	return r.tree.WriteObjects(path.Join(s.k8sDir, "traffic-gen.yaml"), job.Build())
}

// serviceRouteEditor writes the pod that keeps reweighting the reviews
// subsets, through tctl in bridged mode and kubectl in direct mode.
func (r *run) serviceRouteEditor(s *scope, p render.Params) error {
	reviews := s.namespace(naming.RoleBack)
	sa := reviews + "-editor"

	route := serviceRouteName(s.units[0])
	if s.id.Mode == naming.ModeDirect {
		route = reviewsRouteName(s.units[0])
	}

	err := r.render(render.K8sServiceRouteEditor, p.With(render.Params{
		"editorSAName":     sa,
		"editorPodName":    reviews + "-editorpod",
		"namespace":        reviews,
		"image":            defaults.TctlImage,
		"password":         r.editor.password,
		"provider":         strings.ToLower(r.editor.provider),
		"tctlVersion":      r.editor.tctlVersion,
		"serviceRouteName": route,
	}), path.Join(s.editorDir, "servicerouteeditor.yaml"))
	if err != nil {
		return err
	}

	if err := r.tree.WriteObjects(path.Join(s.editorDir, "servicerouteeditor-rbac.yaml"), manifest.EditorRBAC(reviews, sa)...); err != nil {
		return err
	}
	r.cleanup.DeleteClusterObject("clusterrolebinding", sa)
	r.cleanup.DeleteClusterObject("clusterrole", sa)
	return nil
}
