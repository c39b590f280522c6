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
	"bytes"
	"fmt"
	"slices"
)

// CleanupPlan collects the commands that undo a run. Drivers add to it as
// they render objects and the plan is written once as cleanup.sh.
//
// Commands run in three phases: TSB configuration in reverse creation
// order, cluster-scoped Kubernetes objects, then namespaces.
type CleanupPlan struct {
	config        []string
	clusterScoped []string
	namespaces    []string
}

// NewCleanupPlan returns an empty plan.
func NewCleanupPlan() *CleanupPlan {
	return &CleanupPlan{}
}

// DeleteTSB records a file applied with tctl.
func (p *CleanupPlan) DeleteTSB(rel string) {
	p.config = append(p.config, fmt.Sprintf("tctl delete -f %s", rel))
}

// DeleteClusterObject records a cluster-scoped object such as a ClusterRole.
func (p *CleanupPlan) DeleteClusterObject(kind, name string) {
	p.clusterScoped = append(p.clusterScoped,
		fmt.Sprintf("kubectl delete %s %s --ignore-not-found", kind, name))
}

// DeleteNamespace records namespaces; duplicates are dropped.
func (p *CleanupPlan) DeleteNamespace(names ...string) {
	for _, ns := range names {
		cmd := fmt.Sprintf("kubectl delete namespace %s --ignore-not-found", ns)
		if !slices.Contains(p.namespaces, cmd) {
			p.namespaces = append(p.namespaces, cmd)
		}
	}
}

// Len returns the number of recorded commands.
func (p *CleanupPlan) Len() int {
	return len(p.config) + len(p.clusterScoped) + len(p.namespaces)
}

// Commands returns the commands in execution order.
func (p *CleanupPlan) Commands() []string {
	out := make([]string, 0, p.Len())
	for i := len(p.config) - 1; i >= 0; i-- {
		out = append(out, p.config[i])
	}
	out = append(out, p.clusterScoped...)
	return append(out, p.namespaces...)
}

// Script renders the plan as a POSIX shell script that runs from the
// output directory it lives in.
func (p *CleanupPlan) Script() []byte {
	var buf bytes.Buffer
	buf.WriteString("#!/bin/sh\n")
	buf.WriteString("set -u\n")
	buf.WriteString("cd \"$(dirname \"$0\")\"\n")
	for _, cmd := range p.Commands() {
		buf.WriteString(cmd)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
