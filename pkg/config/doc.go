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

// Package config loads and validates the YAML documents that drive fixture
// generation.
//
// Two shapes are supported. The fleet shape is used by the multi-tenant
// drivers:
//
//	organisation: tetrate
//	tenantCount: 4
//	provider: others        # aws | others
//	tctlVersion: 1.2.0
//	config:
//	  - clusterName: c1
//	    trafficGenIPType: internal   # internal | external
//	    replicas:
//	      - tenantId: 3
//	        bridged: 1
//	        direct: 1
//
// The single shape is used by the single-namespace drivers:
//
//	count: 2
//	org: acme
//	cluster: c1
//	mode: direct            # direct | bridged
//
// Both are decoded with unknown fields rejected. Read failures carry the
// CONFIG_IO code, every other failure CONFIG_VALIDATION with the offending
// field path in the message and in the error context.
package config
