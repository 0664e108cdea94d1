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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngnhng/orchtest/sdk/orchestration"
)

func TestFluentReturnsSameBuilder(t *testing.T) {
	f := NewFluent(&recordingT{})

	chain := []*Fluent{
		f.With(),
		f.And(),
		f.CheckThat(),
		f.Activity("A", Return(1)),
		f.ActivityNoResult("B"),
		f.ActivityWithRetry("C", Return(2)),
		f.ActivityWithRetryNoResult("D"),
		f.SubOrchestrator("E", Return(3)),
		f.SubOrchestratorNoResult("F"),
		f.SubOrchestratorWithRetry("G", Return(4)),
		f.SubOrchestratorWithRetryNoResult("H"),
		f.Run(func() {}),
		f.WasCalled("A", Never()),
		f.WasCalledWithRetry("C", Never()),
		f.SubOrchestratorCalled("E", Never()),
		f.SubOrchestratorWithRetryCalled("G", Never()),
		f.BuildDiagram(nil),
	}

	for i, got := range chain {
		assert.Same(t, f, got, "chain step %d", i)
	}
	assert.Len(t, f.Registry().bindings, 8)
}

func TestFluentMatchesDirectRegistry(t *testing.T) {
	run := func(ctx orchestration.Context) {
		opts := orchestration.NewRetryOptions(time.Second, 2)
		_, _ = orchestration.Await[bool](ctx, ctx.CallActivity("IsContinentSupported"))
		_, _ = orchestration.Await[float64](ctx, ctx.CallSubOrchestratorWithRetry("CourierAOrchestratorWithRetry", opts, ""))
		_ = ctx.CallActivity("PublishCalculatedPriceActivity").Get(ctx, nil)
	}

	direct := New(&recordingT{})
	direct.Activity("IsContinentSupported", Return(true))
	direct.SubOrchestratorWithRetry("CourierAOrchestratorWithRetry", Return(100.0), "retry")
	direct.ActivityNoResult("PublishCalculatedPriceActivity")
	run(direct.Context())

	var diagram string
	rt := &recordingT{}
	fluent := NewFluent(rt).
		With().Activity("IsContinentSupported", Return(true)).
		And().SubOrchestratorWithRetry("CourierAOrchestratorWithRetry", Return(100.0), "retry").
		And().ActivityNoResult("PublishCalculatedPriceActivity")
	fluent.
		Run(func() { run(fluent.Context()) }).
		CheckThat().WasCalled("IsContinentSupported", Once()).
		SubOrchestratorWithRetryCalled("CourierAOrchestratorWithRetry", Once()).
		SubOrchestratorCalled("CourierAOrchestratorWithRetry", Never()).
		WasCalled("PublishCalculatedPriceActivity", Once()).
		BuildDiagram(func(d string) { diagram = d })

	assert.False(t, rt.failed(), "%v", rt.failures)
	assert.Equal(t, direct.BuildDiagram(), diagram+"\n")
}

func TestFluentRunExecutesInPlace(t *testing.T) {
	var steps []string
	f := NewFluent(&recordingT{})

	f.Activity("IsContinentSupported", Return(true)).
		Run(func() { steps = append(steps, "run") }).
		Run(func() { steps = append(steps, "again") })

	assert.Equal(t, []string{"run", "again"}, steps)
}

func TestFluentVerificationFailureIsReported(t *testing.T) {
	rt := &recordingT{}

	NewFluent(rt).
		With().SubOrchestrator("CourierBOrchestrator", Return(120.0)).
		CheckThat().SubOrchestratorCalled("CourierBOrchestrator", Once())

	require.Len(t, rt.failures, 1)
	assert.True(t, rt.reported(`sub-orchestrator "CourierBOrchestrator"`))
}
