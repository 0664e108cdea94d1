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
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/ngnhng/orchtest/sdk/orchestration"
)

// Fluent chains Registry operations into one expression:
//
//	testkit.NewFluent(t).
//		With().Activity("IsContinentSupported", testkit.Return(true)).
//		And().SubOrchestrator("CourierBOrchestrator", testkit.Return(120.0)).
//		Run(func() { result, err = shipping.PriceOrchestrator(ctx) }).
//		CheckThat().SubOrchestratorCalled("CourierBOrchestrator", testkit.Once())
//
// Every method applies immediately to the wrapped Registry and returns the
// same builder.
type Fluent struct {
	reg *Registry
}

func NewFluent(t assert.TestingT, opts ...Option) *Fluent {
	return New(t, opts...).Fluent()
}

// Fluent wraps the registry in a chaining builder.
func (r *Registry) Fluent() *Fluent {
	return &Fluent{reg: r}
}

func (f *Fluent) With() *Fluent      { return f }
func (f *Fluent) And() *Fluent       { return f }
func (f *Fluent) CheckThat() *Fluent { return f }

func (f *Fluent) Activity(name string, p Producer, annotation ...string) *Fluent {
	f.reg.Activity(name, p, annotation...)
	return f
}

func (f *Fluent) ActivityNoResult(name string, annotation ...string) *Fluent {
	f.reg.ActivityNoResult(name, annotation...)
	return f
}

func (f *Fluent) ActivityWithRetry(name string, p Producer, annotation ...string) *Fluent {
	f.reg.ActivityWithRetry(name, p, annotation...)
	return f
}

func (f *Fluent) ActivityWithRetryNoResult(name string, annotation ...string) *Fluent {
	f.reg.ActivityWithRetryNoResult(name, annotation...)
	return f
}

func (f *Fluent) SubOrchestrator(name string, p Producer, annotation ...string) *Fluent {
	f.reg.SubOrchestrator(name, p, annotation...)
	return f
}

func (f *Fluent) SubOrchestratorNoResult(name string, annotation ...string) *Fluent {
	f.reg.SubOrchestratorNoResult(name, annotation...)
	return f
}

func (f *Fluent) SubOrchestratorWithRetry(name string, p Producer, annotation ...string) *Fluent {
	f.reg.SubOrchestratorWithRetry(name, p, annotation...)
	return f
}

func (f *Fluent) SubOrchestratorWithRetryNoResult(name string, annotation ...string) *Fluent {
	f.reg.SubOrchestratorWithRetryNoResult(name, annotation...)
	return f
}

// Run executes action in place.
func (f *Fluent) Run(action func()) *Fluent {
	action()
	return f
}

func (f *Fluent) WasCalled(name string, times Times) *Fluent {
	f.reg.Verify(name, times)
	return f
}

func (f *Fluent) WasCalledWithRetry(name string, times Times) *Fluent {
	f.reg.VerifyWithRetry(name, times)
	return f
}

func (f *Fluent) SubOrchestratorCalled(name string, times Times) *Fluent {
	f.reg.VerifySubOrchestrator(name, times)
	return f
}

func (f *Fluent) SubOrchestratorWithRetryCalled(name string, times Times) *Fluent {
	f.reg.VerifySubOrchestratorWithRetry(name, times)
	return f
}

// BuildDiagram renders the diagram and hands it to sink, if any.
func (f *Fluent) BuildDiagram(sink func(string)) *Fluent {
	diagram := f.reg.BuildDiagram()
	if sink != nil {
		sink(strings.TrimSuffix(diagram, "\n"))
	}
	return f
}

func (f *Fluent) Registry() *Registry {
	return f.reg
}

func (f *Fluent) Context() orchestration.Context {
	return f.reg.Context()
}
