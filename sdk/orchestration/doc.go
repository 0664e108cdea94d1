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

// Package orchestration provides the programming model for writing
// orchestrations.
//
// An orchestration is a deterministic function that coordinates activities
// and sub-orchestrations. It receives an orchestration.Context and performs
// every side effect through it:
//
//	func PriceOrchestrator(ctx orchestration.Context) (any, error) {
//		order, err := orchestration.Input[Order](ctx)
//		if err != nil {
//			return nil, err
//		}
//
//		ok, err := orchestration.Await[bool](ctx, ctx.CallActivity("IsSupported", order))
//		if err != nil {
//			return nil, err
//		}
//		...
//	}
//
// # Determinism
//
// Orchestrations must be deterministic. This means:
//   - No direct I/O operations (filesystem, network, database)
//   - No random number generation
//   - No direct time/date operations
//   - No goroutines
//
// Anything non-deterministic belongs in an activity.
//
// # Retries
//
// CallActivityWithRetry and CallSubOrchestratorWithRetry take RetryOptions.
// The engine validates the options before scheduling and rejects invalid ones
// with ErrInvalidRetryOptions.
//
// # Futures
//
// Every call returns a Future. Get blocks until the call completes and decodes
// the result into the given pointer. Pass nil to Get for calls that produce no
// result.
package orchestration
