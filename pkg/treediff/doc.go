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

// Package treediff compares two generated fixture trees.
//
// Files are equal when their relative paths and bytes are equal. Entries
// whose base name is in the ignore list are skipped at every depth; the
// certificate cache "cert" is ignored by default because its key material
// is random per run.
//
// Usage:
//
//	report, err := treediff.Compare("testdata/expected", outDir)
//	if err != nil {
//	    return err
//	}
//	if !report.Equal() {
//	    fmt.Print(report)
//	}
package treediff
