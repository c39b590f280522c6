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
	"fmt"
	"path"
	"slices"

	"github.com/tetratelabs/istio/pkg/config"
	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/render"
)

// appProfile is what differs between the demo applications.
type appProfile struct {
	app naming.App
	// service is the entry service behind the ingress gateway.
	service string
	port    int
	// curlPath is appended to every traffic generator request.
	curlPath string
	roles    []naming.Role
	// namespacesFile names the fleet namespace manifest.
	namespacesFile string
	// versioned apps route a three-version reviews service.
	versioned bool
}

var (
	bookinfo = appProfile{
		app:            naming.AppBookinfo,
		service:        "productpage",
		port:           9080,
		curlPath:       "/productpage",
		roles:          naming.Roles(),
		namespacesFile: "01namespaces.yaml",
		versioned:      true,
	}
	httpbin = appProfile{
		app:            naming.AppHttpbin,
		service:        "httpbin",
		port:           8000,
		roles:          []naming.Role{naming.RoleFront},
		namespacesFile: "01namespace.yaml",
	}
)

// unit is one application instance inside a scope.
type unit struct {
	// suffix is appended to per-instance service, object and file names.
	// Fleet instances own their namespaces and need none.
	suffix   string
	hostname string
}

// scope is one workspace with its gateway: a whole single-namespace run or
// one fleet instance. Paths are relative to the output root.
type scope struct {
	id     naming.Identity
	single bool

	tsbDir    string
	modeDir   string
	k8sDir    string
	editorDir string

	gateway        string
	secret         string
	namespacesFile string
	caSecretFile   string
	ipType         config.TrafficGenIPType

	units []unit
}

// namespace maps a role to its namespace. Single runs put every role in
// the front namespace.
func (s *scope) namespace(role naming.Role) string {
	if s.single {
		return s.id.FrontNamespace()
	}
	return s.id.Namespace(role)
}

func (s *scope) namespaces(app appProfile) []string {
	var out []string
	for _, role := range app.roles {
		if ns := s.namespace(role); !slices.Contains(out, ns) {
			out = append(out, ns)
		}
	}
	return out
}

func (s *scope) fqdn(service string, role naming.Role) string {
	if s.single {
		role = naming.RoleFront
	}
	return s.id.ServiceFQDN(service, role)
}

func (s *scope) file(dir, base string, u unit) string {
	return path.Join(dir, base+u.suffix+".yaml")
}

// params holds what every TSB template of the scope references.
func (s *scope) params(org string, app appProfile) render.Params {
	front := s.namespace(naming.RoleFront)
	return render.Params{
		"orgName":           org,
		"tenantName":        s.id.Tenant(),
		"workspaceName":     s.id.Workspace(),
		"clusterName":       s.id.Cluster,
		"namespaces":        s.namespaces(app),
		"namespace":         front,
		"gatewayNamespace":  front,
		"gatewayGroupName":  s.id.GatewayGroup(),
		"trafficGroupName":  s.id.TrafficGroup(),
		"securityGroupName": s.id.SecurityGroup(),
		"mode":              s.id.Mode.Label(),
		"gatewayName":       s.gateway,
		"secretName":        s.secret,
	}
}

func (s *scope) routes(app appProfile) []render.Route {
	routes := make([]render.Route, 0, len(s.units))
	for _, u := range s.units {
		name := app.service + u.suffix
		routes = append(routes, render.Route{
			Name:        name,
			Hostname:    u.hostname,
			Destination: s.fqdn(name, naming.RoleFront),
			Port:        app.port,
		})
	}
	return routes
}

func serviceRouteName(u unit) string { return "bookinfo-serviceroute" + u.suffix }

func reviewsRouteName(u unit) string { return "bookinfo-reviews" + u.suffix }

func destinationRuleName(app appProfile, u unit) string {
	return app.app.String() + "-destinationrule" + u.suffix
}

func virtualServiceName(app appProfile, u unit) string {
	return app.app.String() + "-virtualservice" + u.suffix
}
