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
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ngnhng/orchtest/internal/scenario"
	"github.com/ngnhng/orchtest/sdk/testkit"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var diagram bool

	cmd := &cobra.Command{
		Use:   "run <file-or-dir>...",
		Short: "Run scenario files",
		Long: `Run each scenario against the orchestration it names.

Directories are expanded to the *.yaml and *.yml files they contain.
Scenarios run concurrently, bounded by ORCHTEST_PARALLELISM.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := loadScenarios(args)
			if err != nil {
				return err
			}
			return runScenarios(cmd, opts, files, diagram)
		},
	}

	cmd.Flags().BoolVar(&diagram, "diagram", false, "print the call diagram of every scenario")
	return cmd
}

// loadScenarios reads every path, expanding directories.
func loadScenarios(paths []string) ([]*scenario.File, error) {
	var files []*scenario.File
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			dir, err := scenario.LoadDir(path)
			if err != nil {
				return nil, err
			}
			files = append(files, dir...)
			continue
		}

		f, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func runScenarios(cmd *cobra.Command, opts *rootOptions, files []*scenario.File, diagram bool) error {
	runner := scenario.Runner{
		Logger: opts.log.Slogger,
		Options: []testkit.Option{
			testkit.WithDump(opts.cfg.Dump),
			testkit.WithDumpIndent(opts.cfg.DumpIndent),
		},
	}
	if s := opts.cfg.PayloadSerde(); s != nil {
		runner.Options = append(runner.Options, testkit.WithSerde(s))
	}

	outcomes := make([]scenario.Outcome, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.cfg.Parallelism)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = runner.Run(ctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run scenarios: %w", err)
	}

	failed := 0
	w := cmd.OutOrStdout()
	for _, out := range outcomes {
		if !out.Passed() {
			failed++
		}
		printOutcome(w, out, diagram)
	}

	fmt.Fprintf(w, "\n%d passed, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))
	}
	return nil
}

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

func printOutcome(w io.Writer, out scenario.Outcome, diagram bool) {
	if out.Passed() {
		fmt.Fprintf(w, "%s  %s\n", passLabel("PASS"), out.Name)
	} else {
		fmt.Fprintf(w, "%s  %s\n", failLabel("FAIL"), out.Name)
		for _, msg := range out.Failures {
			fmt.Fprintf(w, "      %s\n", strings.ReplaceAll(msg, "\n", "\n      "))
		}
	}

	if diagram && out.Diagram != "" {
		for _, line := range strings.Split(strings.TrimRight(out.Diagram, "\n"), "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
	}
}
