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

package testkit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ngnhng/orchtest/api/serde"
	"github.com/ngnhng/orchtest/internal/logger"
	"github.com/ngnhng/orchtest/sdk/dump"
	"github.com/ngnhng/orchtest/sdk/orchestration"
)

// DefaultInstanceID is the id of the orchestration under test unless
// WithInstanceID overrides it.
var DefaultInstanceID = uuid.NewV5(uuid.NamespaceURL, "orchtest://instance").String()

type inputValue struct {
	value  any
	assign func(valuePtr any) bool
}

// Registry stands in for the orchestration engine in a single test case.
// It holds the call bindings, counts intercepted calls on a testify mock and
// records them for diagram rendering.
//
// A Registry is not safe for concurrent use. Every test case builds its own.
type Registry struct {
	t        assert.TestingT
	mock     *mock.Mock
	bindings map[bindingKey]binding
	recorder *Recorder
	sim      *simContext

	logger     *slog.Logger
	logf       func(format string, args ...any)
	level      slog.Leveler
	dump       bool
	dumpIndent int
	serde      serde.BinarySerde
	input      *inputValue
	instanceID string
	ctx        context.Context
}

// New creates a Registry reporting configuration errors and failed
// verifications to t.
func New(t assert.TestingT, opts ...Option) *Registry {
	r := &Registry{
		t:          t,
		mock:       &mock.Mock{},
		bindings:   make(map[bindingKey]binding),
		recorder:   &Recorder{},
		level:      slog.LevelDebug,
		dumpIndent: dump.DefaultIndent,
		instanceID: DefaultInstanceID,
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		if r.logf != nil {
			r.logger = slog.New(logger.NewLogfHandler(r.logf, r.level))
		} else {
			r.logger = slog.Default()
		}
	}

	r.sim = &simContext{Context: r.ctx, reg: r, instanceID: r.instanceID}
	return r
}

// Context returns the simulated orchestration context to pass to the
// orchestration under test.
func (r *Registry) Context() orchestration.Context {
	return r.sim
}

// Execute runs fn against the simulated context.
func (r *Registry) Execute(fn orchestration.Orchestrator) (any, error) {
	return fn(r.sim)
}

// Mock exposes the call substrate for testify's AssertCalled family.
// Activity calls are recorded as (name, args) and sub-orchestrator calls as
// (name, instanceID, args) under the methods "Activity", "ActivityWithRetry",
// "SubOrchestrator" and "SubOrchestratorWithRetry".
func (r *Registry) Mock() *mock.Mock {
	return r.mock
}

// Recorder returns the call log.
func (r *Registry) Recorder() *Recorder {
	return r.recorder
}

// Trace returns a copy of the calls recorded since the last diagram.
func (r *Registry) Trace() []CallRecord {
	return r.recorder.snapshot()
}

// Activity binds a typed result to activity calls named name. A nil
// producer binds the call as fire-and-forget.
func (r *Registry) Activity(name string, p Producer, annotation ...string) {
	r.bind(bindingKey{kind: KindActivity, name: name}, p, annotation)
}

// ActivityNoResult binds a fire-and-forget activity.
func (r *Registry) ActivityNoResult(name string, annotation ...string) {
	r.bind(bindingKey{kind: KindActivity, name: name}, nil, annotation)
}

func (r *Registry) ActivityWithRetry(name string, p Producer, annotation ...string) {
	r.bind(bindingKey{kind: KindActivity, retry: true, name: name}, p, annotation)
}

func (r *Registry) ActivityWithRetryNoResult(name string, annotation ...string) {
	r.bind(bindingKey{kind: KindActivity, retry: true, name: name}, nil, annotation)
}

// SubOrchestrator binds a typed result to sub-orchestration calls named
// name, whatever instance id they carry.
func (r *Registry) SubOrchestrator(name string, p Producer, annotation ...string) {
	r.bind(bindingKey{kind: KindSubOrchestrator, name: name}, p, annotation)
}

func (r *Registry) SubOrchestratorNoResult(name string, annotation ...string) {
	r.bind(bindingKey{kind: KindSubOrchestrator, name: name}, nil, annotation)
}

func (r *Registry) SubOrchestratorWithRetry(name string, p Producer, annotation ...string) {
	r.bind(bindingKey{kind: KindSubOrchestrator, retry: true, name: name}, p, annotation)
}

func (r *Registry) SubOrchestratorWithRetryNoResult(name string, annotation ...string) {
	r.bind(bindingKey{kind: KindSubOrchestrator, retry: true, name: name}, nil, annotation)
}

func (r *Registry) bind(key bindingKey, p Producer, annotation []string) {
	if key.name == "" {
		r.report(key.configError(ReasonEmptyName, "binding ignored"))
		return
	}

	if _, exists := r.bindings[key]; !exists {
		args := []any{key.name, mock.Anything}
		if key.kind == KindSubOrchestrator {
			args = append(args, mock.Anything)
		}
		r.mock.On(key.method(), args...)
	}

	r.bindings[key] = binding{producer: p, annotation: joinAnnotation(annotation)}
}

// Verify checks how often the plain activity name was called.
func (r *Registry) Verify(name string, times Times) bool {
	return r.verify(bindingKey{kind: KindActivity, name: name}, times)
}

func (r *Registry) VerifyWithRetry(name string, times Times) bool {
	return r.verify(bindingKey{kind: KindActivity, retry: true, name: name}, times)
}

func (r *Registry) VerifySubOrchestrator(name string, times Times) bool {
	return r.verify(bindingKey{kind: KindSubOrchestrator, name: name}, times)
}

func (r *Registry) VerifySubOrchestratorWithRetry(name string, times Times) bool {
	return r.verify(bindingKey{kind: KindSubOrchestrator, retry: true, name: name}, times)
}

func (r *Registry) verify(key bindingKey, times Times) bool {
	actual := r.count(key)
	if times.Matches(actual) {
		return true
	}

	label := key.kind.String()
	if key.retry {
		label += " with retry"
	}
	return assert.Fail(r.t, fmt.Sprintf("%s %q: expected %s, called %d time(s)",
		label, key.name, times, actual))
}

// Count returns how often a bound call was intercepted. Unbound calls are
// never counted.
func (r *Registry) Count(kind Kind, retry bool, name string) int {
	return r.count(bindingKey{kind: kind, retry: retry, name: name})
}

func (r *Registry) count(key bindingKey) int {
	method := key.method()
	n := 0
	for _, call := range r.mock.Calls {
		if call.Method == method && len(call.Arguments) > 0 && call.Arguments[0] == key.name {
			n++
		}
	}
	return n
}

// intercept resolves one call made by the orchestration under test.
func (r *Registry) intercept(key bindingKey, opts *orchestration.RetryOptions, instanceID string, args []any) *future {
	b, ok := r.bindings[key]
	if !ok {
		err := key.configError(ReasonUnbound, "no binding registered")
		r.report(err)
		return &future{reg: r, key: key, err: err}
	}

	if opts != nil {
		if err := opts.Validate(); err != nil {
			r.logger.Warn("rejected retry options", "name", key.name, "error", err)
			return &future{reg: r, key: key, err: fmt.Errorf("%s %q: %w", key.kind, key.name, err)}
		}
	}

	if r.serde != nil {
		if _, err := r.serde.SerializeBinary(args); err != nil {
			cerr := key.configError(ReasonPayloadEncoding, err.Error())
			r.report(cerr)
			return &future{reg: r, key: key, err: cerr}
		}
	}

	var (
		value any
		err   error
	)
	if b.producer != nil {
		value, err = b.producer.produce()
	}

	callArgs := []any{key.name}
	if key.kind == KindSubOrchestrator {
		callArgs = append(callArgs, instanceID)
	}
	r.mock.MethodCalled(key.method(), append(callArgs, args)...)

	payload := value
	if err != nil {
		payload = err
	}
	r.recorder.record(key.name, payload, b.annotation)

	if r.dump {
		r.logger.Debug(fmt.Sprintf("calling %s", key.name))
		r.logger.Debug(strings.TrimSuffix(dump.Indented(payload, r.dumpIndent), "\n"))
	}

	f := &future{reg: r, key: key, producer: b.producer, value: value}
	if err != nil {
		f.err = orchestration.NewCallFailedError(key.name, err)
	}
	return f
}

func (r *Registry) readInput(valuePtr any) error {
	if r.input == nil {
		err := &ConfigError{Reason: ReasonNoInput, Kind: KindInput, Detail: "use WithInput"}
		r.report(err)
		return err
	}

	if r.serde != nil {
		if err := serde.NewTypeConverter(r.serde).Assign(r.input.value, valuePtr); err != nil {
			cerr := &ConfigError{Reason: ReasonTypeMismatch, Kind: KindInput, Detail: err.Error()}
			r.report(cerr)
			return cerr
		}
		return nil
	}

	if !r.input.assign(valuePtr) {
		err := &ConfigError{
			Reason: ReasonTypeMismatch,
			Kind:   KindInput,
			Detail: fmt.Sprintf("input is %T, read into %T", r.input.value, valuePtr),
		}
		r.report(err)
		return err
	}
	return nil
}

func (r *Registry) report(err error) {
	assert.Fail(r.t, err.Error())
}
