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

package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"quote":  strconv.Quote,
		"indent": indent,
		"join":   join,
		"has":    has,
	}
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// join concatenates the string forms of a list with sep.
func join(sep string, list any) (string, error) {
	switch v := list.(type) {
	case []string:
		return strings.Join(v, sep), nil
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, sep), nil
	default:
		return "", fmt.Errorf("join: unsupported list type %T", list)
	}
}

// has reports whether needle is an element of list.
func has(needle string, list any) (bool, error) {
	switch v := list.(type) {
	case []string:
		return slices.Contains(v, needle), nil
	case []any:
		for _, e := range v {
			if fmt.Sprint(e) == needle {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("has: unsupported list type %T", list)
	}
}
