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

// Command orchtest runs YAML orchestration scenarios against the harness
// and prints a verdict and call diagram for each.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	_ "github.com/ngnhng/orchtest/examples/order"
	_ "github.com/ngnhng/orchtest/examples/shipping"
	"github.com/ngnhng/orchtest/internal/config"
	"github.com/ngnhng/orchtest/internal/logger"
)

type rootOptions struct {
	noColor bool

	cfg *config.Config
	log *logger.Logger
}

// close flushes and releases the logger. It is a no-op before one is created.
func (o *rootOptions) close(ctx context.Context) error {
	if o.log == nil {
		return nil
	}
	log := o.log
	o.log = nil
	return log.Shutdown(ctx)
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orchtest",
		Short:         "Deterministic orchestration scenarios",
		Long:          "Run orchestration scenarios described in YAML against simulated activities and sub-orchestrations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.noColor {
				color.NoColor = true
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cmd.Context(), logger.FromConfig(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.cfg = cfg
			opts.log = log
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored verdicts")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())
	return cmd
}

// execute runs cmd and closes the logger however the command ends. Cobra
// skips post-run hooks when a command fails.
func execute(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (err error) {
	defer func() {
		err = errors.Join(err, opts.close(context.WithoutCancel(ctx)))
	}()
	return cmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := &rootOptions{}
	if err := execute(ctx, newRootCommand(opts), opts); err != nil {
		fmt.Fprintln(os.Stderr, "orchtest:", err)
		stop()
		os.Exit(1)
	}
}
