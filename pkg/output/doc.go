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

// Package output manages the directory tree a generator run writes.
//
// Files are written into a run-scoped staging directory
// (<root>/.staging-<uuid>) and only moved into the output root by Commit,
// together with a checksums.txt covering every file. A run that fails calls
// Abort, which removes the staging directory and leaves previously
// published content untouched. The certificate cache is not staged; it is
// addressed with RootPath and persists across runs.
//
// Layout of a published tree:
//
//	config.yaml
//	cleanup.sh
//	checksums.txt
//	cert/                     certificate cache
//	k8s-objects/<key>/        Kubernetes manifests per instance
//	tsb-objects/<key>/        TSB manifests per instance
//	tsb-k8s-objects/<key>/    ServiceRoute editor
package output
