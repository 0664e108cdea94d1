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

// Package testkit runs orchestrations without an engine.
//
// A Registry hands the orchestration under test a simulated
// orchestration.Context. Every call the orchestration makes is matched
// against the bindings registered on the Registry, answered immediately,
// counted and recorded in call order.
//
// # Bindings
//
// A binding is keyed by call kind (activity or sub-orchestrator), retry
// variant and name. Binding the same key again replaces the earlier
// binding. Retry and plain bindings never satisfy each other.
//
//	reg := testkit.New(t, testkit.WithInput(order))
//	reg.Activity("IsContinentSupported", testkit.Return(true))
//	reg.SubOrchestrator("CourierBOrchestrator", testkit.Returns(func() float64 { return 120 }))
//	reg.ActivityNoResult("PublishCalculatedPriceActivity", "publish")
//
// Sub-orchestrator bindings match any instance id.
//
// # Configuration errors
//
// Calls nobody bound, results awaited with the wrong shape or type, and a
// missing input are reported to the test as a *ConfigError naming the call.
// Nothing is fabricated: the orchestration receives the same error from the
// Future and a zero value never passes for a configured one.
//
// # Verification
//
//	reg.VerifySubOrchestrator("CourierAOrchestrator", testkit.Never())
//	reg.VerifySubOrchestrator("CourierBOrchestrator", testkit.Once())
//
// # Diagrams
//
// BuildDiagram drains the recorded calls into a PlantUML activity flow.
//
// # Fluent API
//
// Fluent offers the same operations as one chained expression.
package testkit
