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
	stderrors "errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/istio/pkg/output/checksum"
	"github.com/tetratelabs/istio/pkg/treediff"
)

var (
	errTreesDiffer      = stderrors.New("fixture trees differ")
	errChecksumMismatch = stderrors.New("checksum verification failed")
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare two fixture folders",
		ArgsUsage: "<expected> <actual>",
		Description: `Recursively compares two generated folders and reports files present on
only one side and files whose content differs. The certificate cache is
ignored unless --ignore is given.

Exits with status 1 when the trees differ.

Example:
  tsbutil diff golden/ 1718000000/`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Base names to skip while walking (replaces the default: cert)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("diff requires exactly two folders, got %d", cmd.NArg())
			}
			var opts []treediff.Option
			if ignore := cmd.StringSlice("ignore"); len(ignore) > 0 {
				opts = append(opts, treediff.WithIgnore(ignore...))
			}

			report, err := treediff.Compare(cmd.Args().Get(0), cmd.Args().Get(1), opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.Root().Writer, report.String())
			if !report.Equal() {
				return errTreesDiffer
			}
			return nil
		},
	}
}

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check a fixture folder against its checksums.txt",
		ArgsUsage: "<folder>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("verify requires exactly one folder, got %d", cmd.NArg())
			}
			dir := cmd.Args().First()

			mismatches, err := checksum.Verify(ctx, dir)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			if len(mismatches) == 0 {
				fmt.Fprintf(w, "%s: all checksums match\n", dir)
				return nil
			}
			for _, m := range mismatches {
				fmt.Fprintln(w, m.String())
			}
			return errChecksumMismatch
		},
	}
}
