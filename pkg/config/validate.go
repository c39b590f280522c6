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

	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/version"
)

// Validate performs semantic validation on the fleet configuration and
// resolves the parsed tctl version.
func (f *Fleet) Validate() error {
	if err := naming.ValidateLabel("organisation", f.Organisation); err != nil {
		return wrapField("organisation", err)
	}
	if f.TenantCount < 0 {
		return fieldError("tenantCount", "must not be negative, got %d", f.TenantCount)
	}

	if f.Provider == "" {
		f.Provider = ProviderOthers
	}
	if !f.Provider.IsValid() {
		return fieldError("provider", "invalid value %q, must be %q or %q", f.Provider, ProviderAWS, ProviderOthers)
	}

	if f.TctlVersion != "" {
		v, err := version.ParseVersion(f.TctlVersion)
		if err != nil {
			return wrapField("tctlVersion", err)
		}
		f.tctl = v
	}

	if len(f.Clusters) == 0 {
		return fieldError("config", "at least one cluster entry is required")
	}

	seen := make(map[string]struct{}, len(f.Clusters))
	for i := range f.Clusters {
		c := &f.Clusters[i]
		path := fmt.Sprintf("config[%d]", i)
		if err := c.validate(path, f.TenantCount); err != nil {
			return err
		}
		if _, exists := seen[c.Name]; exists {
			return fieldError(path+".clusterName", "duplicate cluster %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

func (c *Cluster) validate(path string, tenantCount int) error {
	if err := naming.ValidateLabel("cluster", c.Name); err != nil {
		return wrapField(path+".clusterName", err)
	}
	if !c.TrafficGenIPType.IsValid() {
		return fieldError(path+".trafficGenIPType", "invalid value %q, must be %q or %q",
			c.TrafficGenIPType, TrafficGenInternal, TrafficGenExternal)
	}
	if c.TrafficGenIPType == "" {
		c.TrafficGenIPType = TrafficGenInternal
	}

	for j, r := range c.Replicas {
		rp := fmt.Sprintf("%s.replicas[%d]", path, j)
		if r.TenantID < 0 {
			return fieldError(rp+".tenantId", "must not be negative, got %d", r.TenantID)
		}
		if tenantCount > 0 && r.TenantID >= tenantCount {
			return fieldError(rp+".tenantId", "tenant %d is out of range, tenantCount is %d", r.TenantID, tenantCount)
		}
		if r.Bridged < 0 {
			return fieldError(rp+".bridged", "must not be negative, got %d", r.Bridged)
		}
		if r.Direct < 0 {
			return fieldError(rp+".direct", "must not be negative, got %d", r.Direct)
		}
	}
	return nil
}

// Validate performs semantic validation on the single-namespace
// configuration and resolves the routing mode.
func (s *Single) Validate() error {
	if s.Count < 0 {
		return fieldError("count", "must not be negative, got %d", s.Count)
	}
	if err := naming.ValidateLabel("organisation", s.Org); err != nil {
		return wrapField("org", err)
	}
	if err := naming.ValidateLabel("cluster", s.Cluster); err != nil {
		return wrapField("cluster", err)
	}

	m, err := naming.ParseMode(s.Mode)
	if err != nil {
		return wrapField("mode", err)
	}
	s.mode = m

	if !s.TrafficGenIPType.IsValid() {
		return fieldError("trafficGenIPType", "invalid value %q, must be %q or %q",
			s.TrafficGenIPType, TrafficGenInternal, TrafficGenExternal)
	}
	if s.TrafficGenIPType == "" {
		s.TrafficGenIPType = TrafficGenInternal
	}
	return nil
}
