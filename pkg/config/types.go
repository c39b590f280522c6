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

package config

import (
	"fmt"
	"slices"

	corev1 "k8s.io/api/core/v1"

	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/version"
)

// TrafficGenIPType selects which node address the traffic generator uses
// to reach the ingress gateway.
type TrafficGenIPType string

const (
	TrafficGenInternal TrafficGenIPType = "internal"
	TrafficGenExternal TrafficGenIPType = "external"
)

// IsValid reports whether t is a known IP type. The empty value is
// accepted and treated as internal.
func (t TrafficGenIPType) IsValid() bool {
	return t == "" || t == TrafficGenInternal || t == TrafficGenExternal
}

// AddressType maps the config value onto the node address type queried by
// the traffic generator script.
func (t TrafficGenIPType) AddressType() corev1.NodeAddressType {
	if t == TrafficGenExternal {
		return corev1.NodeExternalIP
	}
	return corev1.NodeInternalIP
}

// Provider is the cloud the fleet runs on. It changes how the ServiceRoute
// editor job resolves the TSB endpoint.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderOthers Provider = defaults.Provider
)

// IsValid reports whether p is a known provider.
func (p Provider) IsValid() bool {
	return p == ProviderAWS || p == ProviderOthers
}

// Replica describes how many application instances of each routing mode
// a tenant gets on one cluster.
type Replica struct {
	TenantID int `yaml:"tenantId"`
	Bridged  int `yaml:"bridged"`
	Direct   int `yaml:"direct"`
}

// Units expands the replica into one mode per instance, bridged first.
func (r Replica) Units() []naming.Mode {
	units := make([]naming.Mode, 0, r.Bridged+r.Direct)
	for i := 0; i < r.Bridged; i++ {
		units = append(units, naming.ModeBridged)
	}
	for i := 0; i < r.Direct; i++ {
		units = append(units, naming.ModeDirect)
	}
	return units
}

// Cluster is one entry of the fleet's config list.
type Cluster struct {
	Name             string           `yaml:"clusterName"`
	Replicas         []Replica        `yaml:"replicas"`
	TrafficGenIPType TrafficGenIPType `yaml:"trafficGenIPType,omitempty"`
}

// Instances returns the number of application instances on the cluster.
func (c Cluster) Instances() int {
	n := 0
	for _, r := range c.Replicas {
		n += r.Bridged + r.Direct
	}
	return n
}

// Fleet is the multi-tenant configuration shared by the fleet drivers.
type Fleet struct {
	Organisation string    `yaml:"organisation"`
	TenantCount  int       `yaml:"tenantCount"`
	Provider     Provider  `yaml:"provider,omitempty"`
	TctlVersion  string    `yaml:"tctlVersion,omitempty"`
	Clusters     []Cluster `yaml:"config"`

	tctl version.Version
}

// Tctl returns the parsed tctlVersion, or the default when unset.
// Only meaningful after Validate succeeded.
func (f *Fleet) Tctl() version.Version {
	if f.TctlVersion == "" {
		return version.DefaultTctl
	}
	return f.tctl
}

// Tenants returns the distinct tenant indexes referenced by any replica,
// in ascending order.
func (f *Fleet) Tenants() []int {
	seen := map[int]bool{}
	var out []int
	for _, c := range f.Clusters {
		for _, r := range c.Replicas {
			if !seen[r.TenantID] {
				seen[r.TenantID] = true
				out = append(out, r.TenantID)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Single is the flat configuration of the single-namespace drivers.
type Single struct {
	Count            int              `yaml:"count"`
	Org              string           `yaml:"org"`
	Cluster          string           `yaml:"cluster"`
	Mode             string           `yaml:"mode"`
	TrafficGenIPType TrafficGenIPType `yaml:"trafficGenIPType,omitempty"`

	mode naming.Mode
}

// RoutingMode returns the parsed mode. Only meaningful after Validate succeeded.
func (s *Single) RoutingMode() naming.Mode {
	return s.mode
}

func (s *Single) String() string {
	return fmt.Sprintf("%s/%s x%d (%s)", s.Org, s.Cluster, s.Count, s.Mode)
}
