// Copyright 2025 Nguyen Nhat Nguyen
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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngnhng/orchtest/examples/scenarios"
	"github.com/ngnhng/orchtest/internal/scenario"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the orchestrations scenarios can name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range scenarios.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, path := range args {
				f, err := scenario.Load(path)
				if err == nil {
					if _, ok := scenarios.Get(f.Orchestrator); !ok {
						err = fmt.Errorf("%s: unknown orchestrator %q", path, f.Orchestrator)
					}
				}
				if err != nil {
					invalid++
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %v\n", failLabel("INVALID"), err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", passLabel("OK"), path)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d files invalid", invalid, len(args))
			}
			return nil
		},
	}
}
