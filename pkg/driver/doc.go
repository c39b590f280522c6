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

// Package driver turns a configuration file into a fixture tree.
//
// There is one driver per topology:
//
//   - BookinfoSingle, HttpbinSingle: count instances in one namespace
//     behind one gateway and a wildcard certificate.
//   - BookinfoFleet, HttpbinFleet: one instance per replica unit of every
//     cluster, each with its own workspace, namespaces and certificate.
//
// Every driver runs the same pipeline: load and validate the config, open
// a staging tree under the output folder, ensure the root CA in
// <folder>/cert, render tenants and then every instance, write cleanup.sh,
// and commit. Routing-mode specific objects come from a single dispatch
// table keyed by naming.Mode.
//
// Output layout (fleet):
//
//	<folder>/
//	├── config.yaml
//	├── cleanup.sh
//	├── checksums.txt
//	├── cert/                         # certificate cache, reused across runs
//	├── tsb-objects/tenant<T>.yaml
//	├── tsb-objects/<key>/{workspaces,groups,perm}.yaml
//	├── tsb-objects/<key>/<mode>/...  # gateway, security, routes
//	├── k8s-objects/<key>/...         # namespaces, app, ingress, secrets, traffic generator
//	└── tsb-k8s-objects/<key>/...     # bookinfo ServiceRoute editor
//
// <key> is <cluster>-<mode token><seq>, e.g. c1-b0.
package driver
