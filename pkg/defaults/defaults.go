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

package defaults

import "time"

// Certificate parameters passed to openssl.
const (
	// CertValidityDays is the lifetime of every generated certificate.
	CertValidityDays = 365

	// RootKeyBits is the RSA key size of the root CA.
	RootKeyBits = 4096

	// LeafKeyBits is the RSA key size of ingress certificates.
	LeafKeyBits = 2048

	// RootSubject is the distinguished name of the root CA.
	RootSubject = "/C=US/ST=CA/O=Tetrateio/CN=tetrate.test.com"

	// LeafOrganization is the O= component of leaf certificate subjects.
	LeafOrganization = "bookinfo organization"

	// OpensslBinary is looked up on PATH unless overridden.
	OpensslBinary = "openssl"
)

// Tool timeouts.
const (
	// OpensslTimeout bounds a single openssl invocation. RSA-4096 key
	// generation is the slowest step.
	OpensslTimeout = 2 * time.Minute
)

// Generated workload parameters.
const (
	// TrafficGenImage runs the traffic generator script; it ships kubectl and curl.
	TrafficGenImage = "alpine/k8s:1.29.2"

	// TrafficGenBackoffLimit is the Job retry budget of the traffic generator.
	TrafficGenBackoffLimit int32 = 4

	// TctlImage runs the ServiceRoute editor Job.
	TctlImage = "ubuntu:22.04"

	// AdminPassword is the default TSB admin password for the ServiceRoute editor.
	AdminPassword = "admin"

	// Provider is the default cloud provider of a fleet.
	Provider = "others"
)

// Output file and directory names.
const (
	CertDir          = "cert"
	K8sObjectsDir    = "k8s-objects"
	TSBObjectsDir    = "tsb-objects"
	TSBK8sObjectsDir = "tsb-k8s-objects"
	ConfigFile       = "config.yaml"
	CleanupFile      = "cleanup.sh"
)
