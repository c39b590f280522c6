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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/istio/pkg/render"
)

func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List the embedded template identifiers",
		Description: `Prints every embedded template identifier. A file at the same relative
path inside the --templates directory of a generator replaces the embedded one.

Example:
  tsbutil templates
  tsbutil httpbin --config httpbin.yaml --templates ./my-templates`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			ids, err := render.IDs()
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			w := cmd.Root().Writer
			for _, id := range ids {
				fmt.Fprintln(w, id)
			}
			return nil
		},
	}
}
