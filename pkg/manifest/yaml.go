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

package manifest

import (
	"bytes"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/render"
)

const separator = "---\n"

// Marshal serializes objects into a multi-document YAML stream.
func Marshal(objs ...any) ([]byte, error) {
	var buf bytes.Buffer
	for i, o := range objs {
		data, err := yaml.Marshal(o)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to marshal object %d (%T)", i, o), err)
		}
		if i > 0 {
			buf.WriteString(separator)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// WriteFile serializes objects into path.
func WriteFile(path string, objs ...any) error {
	data, err := Marshal(objs...)
	if err != nil {
		return err
	}
	return render.WriteFile(path, data, 0o644)
}

// SplitDocuments splits a multi-document YAML stream.
func SplitDocuments(data []byte) [][]byte {
	var docs [][]byte
	for _, d := range bytes.Split(data, []byte(separator)) {
		if len(bytes.TrimSpace(d)) > 0 {
			docs = append(docs, d)
		}
	}
	return docs
}

// Unmarshal decodes a single YAML document into obj.
func Unmarshal(data []byte, obj any) error {
	return yaml.Unmarshal(data, obj)
}
