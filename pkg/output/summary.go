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

package output

import (
	"fmt"
	"time"
)

// Summary describes a committed run.
type Summary struct {
	// RunID identifies the run; it also named the staging directory.
	RunID string `json:"run_id" yaml:"run_id"`

	// OutputDir is the directory the fixture tree was published to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Files lists the published paths relative to OutputDir.
	Files []string `json:"files" yaml:"files"`

	// TotalSize is the total size in bytes of all generated files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// Duration is the time from staging to commit.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Instances is the number of application instances generated.
	Instances int `json:"instances" yaml:"instances"`

	// CertsGenerated and CertsReused count certificate cache misses and hits.
	CertsGenerated int `json:"certs_generated" yaml:"certs_generated"`
	CertsReused    int `json:"certs_reused" yaml:"certs_reused"`
}

// String returns a one-line human-readable summary.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"Generated %d instances, %d files (%s) in %v into %s. Certificates: %d generated, %d reused.",
		s.Instances,
		len(s.Files),
		formatBytes(s.TotalSize),
		s.Duration.Round(time.Millisecond),
		s.OutputDir,
		s.CertsGenerated,
		s.CertsReused,
	)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
