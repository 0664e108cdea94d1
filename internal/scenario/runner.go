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

package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ngnhng/orchtest/api/serde"
	"github.com/ngnhng/orchtest/examples/scenarios"
	"github.com/ngnhng/orchtest/sdk/testkit"
)

// Outcome is the verdict of one scenario run.
type Outcome struct {
	Name     string
	Path     string
	Failures []string
	Result   any
	Err      error
	Diagram  string
}

// Passed reports whether the run met every expectation.
func (o Outcome) Passed() bool {
	return len(o.Failures) == 0
}

// Runner executes scenarios. The zero value looks orchestrations up in the
// examples catalogue and logs through slog.Default.
type Runner struct {
	Lookup  func(name string) (scenarios.Example, bool)
	Logger  *slog.Logger
	Options []testkit.Option
}

// collector is the TestingT handed to the registry; it keeps every report.
type collector struct {
	failures []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.failures = append(c.failures, failureMessage(fmt.Sprintf(format, args...)))
}

// failureMessage strips testify's labelled layout down to the error text.
func failureMessage(msg string) string {
	var parts []string
	capture := false
	for _, line := range strings.Split(msg, "\n") {
		trimmed := strings.TrimSpace(line)
		label, rest, found := strings.Cut(trimmed, ":")
		switch {
		case found && (label == "Error" || label == "Messages"):
			capture = true
			parts = append(parts, strings.TrimSpace(rest))
		case found && (label == "Error Trace" || label == "Test"):
			capture = false
		case capture && trimmed != "":
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(msg)
	}
	return strings.Join(parts, ": ")
}

func (r Runner) lookup(name string) (scenarios.Example, bool) {
	if r.Lookup != nil {
		return r.Lookup(name)
	}
	return scenarios.Get(name)
}

func (r Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run executes f and collects every failed expectation.
func (r Runner) Run(ctx context.Context, f *File) Outcome {
	out := Outcome{Name: f.Name, Path: f.Path}
	log := r.logger().With("scenario", f.Name)

	example, ok := r.lookup(f.Orchestrator)
	if !ok {
		out.Failures = append(out.Failures, fmt.Sprintf("unknown orchestrator %q", f.Orchestrator))
		return out
	}

	wire := &serde.JsonSerde{}
	tc := serde.NewTypeConverter(wire)

	ct := &collector{}
	opts := []testkit.Option{testkit.WithContext(ctx), testkit.WithLogger(log), testkit.WithSerde(wire)}
	if f.Input != nil {
		opts = append(opts, testkit.WithInput(f.Input))
	}
	reg := testkit.New(ct, append(opts, r.Options...)...)

	for _, b := range f.Bindings {
		p, err := b.producer(tc)
		if err != nil {
			out.Failures = append(out.Failures, err.Error())
			return out
		}
		bind(reg, b, p)
	}

	log.Debug("running scenario", "orchestrator", f.Orchestrator, "bindings", len(f.Bindings))
	out.Result, out.Err = reg.Execute(example.Run)

	switch {
	case f.Error == "" && out.Err != nil:
		ct.failures = append(ct.failures, fmt.Sprintf("orchestration failed: %v", out.Err))
	case f.Error != "" && out.Err == nil:
		ct.failures = append(ct.failures, fmt.Sprintf("expected error containing %q, orchestration succeeded", f.Error))
	case f.Error != "" && !strings.Contains(out.Err.Error(), f.Error):
		ct.failures = append(ct.failures, fmt.Sprintf("expected error containing %q, got %v", f.Error, out.Err))
	}

	for _, e := range f.Expect {
		times, err := ParseTimes(e.Times)
		if err != nil {
			ct.failures = append(ct.failures, err.Error())
			continue
		}
		verify(reg, e, times)
	}

	if f.Result != nil && out.Err == nil {
		want, werr := normalize(wire, f.Result)
		got, gerr := normalize(wire, out.Result)
		if werr != nil || gerr != nil {
			ct.failures = append(ct.failures, fmt.Sprintf("compare result: %v", firstErr(werr, gerr)))
		} else {
			ct.failures = append(ct.failures, subsetDiff("result", want, got)...)
		}
	}

	out.Diagram = reg.BuildDiagram()
	if f.Diagram != "" && strings.TrimRight(f.Diagram, "\n") != strings.TrimRight(out.Diagram, "\n") {
		ct.failures = append(ct.failures, fmt.Sprintf("diagram mismatch:\nwant:\n%s\ngot:\n%s", f.Diagram, out.Diagram))
	}

	for _, msg := range ct.failures {
		if f.Error != "" && out.Err != nil && strings.Contains(msg, f.Error) {
			continue
		}
		out.Failures = append(out.Failures, msg)
	}

	if out.Passed() {
		log.Info("scenario passed")
	} else {
		log.Warn("scenario failed", "failures", len(out.Failures))
	}
	return out
}

func bind(reg *testkit.Registry, b Binding, p testkit.Producer) {
	switch b.Call {
	case CallActivity:
		reg.Activity(b.Name, p, b.Annotation)
	case CallActivityWithRetry:
		reg.ActivityWithRetry(b.Name, p, b.Annotation)
	case CallSubOrchestrator:
		reg.SubOrchestrator(b.Name, p, b.Annotation)
	case CallSubOrchestratorWithRetry:
		reg.SubOrchestratorWithRetry(b.Name, p, b.Annotation)
	}
}

func verify(reg *testkit.Registry, e Expectation, times testkit.Times) {
	switch e.Call {
	case CallActivity:
		reg.Verify(e.Name, times)
	case CallActivityWithRetry:
		reg.VerifyWithRetry(e.Name, times)
	case CallSubOrchestrator:
		reg.VerifySubOrchestrator(e.Name, times)
	case CallSubOrchestratorWithRetry:
		reg.VerifySubOrchestratorWithRetry(e.Name, times)
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
