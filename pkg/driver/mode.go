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
	"path"

	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/render"
)

// modeObjects renders the routing objects of one routing mode.
type modeObjects struct {
	// shared renders the objects a scope has once, like its gateway.
	shared func(r *run, s *scope, p render.Params) error
	// instance renders the objects of a single instance.
	instance func(r *run, s *scope, u unit, p render.Params) error
}

// modeTable is the only place routing modes branch.
var modeTable = map[naming.Mode]modeObjects{
	naming.ModeBridged: {shared: bridgedShared, instance: bridgedInstance},
	naming.ModeDirect:  {shared: directShared, instance: directInstance},
}

// Bridged mode: TSB IngressGateway, SecuritySetting and ServiceRoute.

func bridgedShared(r *run, s *scope, p render.Params) error {
	setting := r.app.app.String() + "-security-setting"
	if s.single {
		setting += "-" + s.namespace(naming.RoleFront)
	}
	err := r.renderTSB(render.BridgedSecurity,
		p.With(render.Params{"securitySettingName": setting}),
		path.Join(s.modeDir, "security.yaml"))
	if err != nil {
		return err
	}
	return r.renderTSB(render.BridgedGateway,
		p.With(render.Params{"routes": s.routes(r.app)}),
		path.Join(s.modeDir, "gateway.yaml"))
}

func bridgedInstance(r *run, s *scope, u unit, p render.Params) error {
	if !r.app.versioned {
		return nil
	}
	return r.renderTSB(render.BridgedServiceRoute, p.With(render.Params{
		"serviceRouteName": serviceRouteName(u),
		"reviewsNamespace": s.namespace(naming.RoleBack),
		"reviewsHostFQDN":  s.fqdn("reviews"+u.suffix, naming.RoleBack),
	}), s.file(s.modeDir, "serviceroute", u))
}

// Direct mode: Istio Gateway, VirtualService and DestinationRule. They live
// in the instance namespaces and go away with them.

func directShared(r *run, s *scope, p render.Params) error {
	return r.render(render.DirectGateway,
		p.With(render.Params{"routes": s.routes(r.app)}),
		path.Join(s.modeDir, "gateway.yaml"))
}

func directInstance(r *run, s *scope, u unit, p render.Params) error {
	destination := s.fqdn(r.app.service+u.suffix, naming.RoleFront)

	err := r.render(render.DirectVirtualService, p.With(render.Params{
		"virtualserviceName": virtualServiceName(r.app, u),
		"hostname":           u.hostname,
		"destinationFQDN":    destination,
		"port":               r.app.port,
	}), s.file(s.modeDir, "virtualservice", u))
	if err != nil || !r.app.versioned {
		return err
	}

	err = r.render(render.DirectDestinationRule, p.With(render.Params{
		"destinationruleName": destinationRuleName(r.app, u),
		"destinationFQDN":     destination,
	}), s.file(s.modeDir, "destinationrule", u))
	if err != nil {
		return err
	}

	return r.render(render.DirectReviewsRoute, p.With(render.Params{
		"reviewsRouteName": reviewsRouteName(u),
		"reviewsNamespace": s.namespace(naming.RoleBack),
		"reviewsHostFQDN":  s.fqdn("reviews"+u.suffix, naming.RoleBack),
	}), s.file(s.modeDir, "reviews_vs", u))
}
