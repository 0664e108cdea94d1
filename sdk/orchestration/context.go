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

package orchestration

import (
	"context"
)

// Context is the orchestration execution context.
//
// Context extends context.Context with the operations an orchestration may
// perform. All calls must go through this context so that a test double can
// stand in for the engine.
//
// Key methods:
//   - CallActivity / CallActivityWithRetry: schedule an activity
//   - CallSubOrchestrator / CallSubOrchestratorWithRetry: start a child orchestration
//   - GetInput: decode the orchestration input
//
// An empty instanceID on a sub-orchestration call lets the engine assign one.
type Context interface {
	context.Context

	InstanceID() string
	GetInput(valuePtr any) error

	CallActivity(name string, args ...any) Future
	CallActivityWithRetry(name string, opts RetryOptions, args ...any) Future
	CallSubOrchestrator(name, instanceID string, args ...any) Future
	CallSubOrchestratorWithRetry(name string, opts RetryOptions, instanceID string, args ...any) Future
}

// Future represents the result of an activity or sub-orchestration call.
//
//	var price float64
//	if err := ctx.CallActivity("Quote", order).Get(ctx, &price); err != nil {
//		return nil, err
//	}
//
// Calls that produce no result are awaited with a nil pointer.
type Future interface {
	Get(ctx context.Context, valuePtr any) error
}

// Orchestrator is an orchestration function.
type Orchestrator func(ctx Context) (any, error)

// Await blocks on f and returns its result as T.
func Await[T any](ctx Context, f Future) (T, error) {
	var result T
	if err := f.Get(ctx, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Input decodes the orchestration input as T.
func Input[T any](ctx Context) (T, error) {
	var input T
	if err := ctx.GetInput(&input); err != nil {
		var zero T
		return zero, err
	}
	return input, nil
}
