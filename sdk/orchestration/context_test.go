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
	"errors"
	"testing"
)

type stubFuture struct {
	value string
	err   error
}

func (f stubFuture) Get(_ context.Context, valuePtr any) error {
	if f.err != nil {
		return f.err
	}
	*(valuePtr.(*string)) = f.value
	return nil
}

type stubContext struct {
	context.Context
	input string
}

func (c stubContext) InstanceID() string { return "stub" }

func (c stubContext) GetInput(valuePtr any) error {
	*(valuePtr.(*string)) = c.input
	return nil
}

func (c stubContext) CallActivity(string, ...any) Future { return stubFuture{} }

func (c stubContext) CallActivityWithRetry(string, RetryOptions, ...any) Future {
	return stubFuture{}
}

func (c stubContext) CallSubOrchestrator(string, string, ...any) Future { return stubFuture{} }

func (c stubContext) CallSubOrchestratorWithRetry(string, RetryOptions, string, ...any) Future {
	return stubFuture{}
}

func TestAwait(t *testing.T) {
	ctx := stubContext{Context: context.Background()}

	got, err := Await[string](ctx, stubFuture{value: "CourierA"})
	if err != nil {
		t.Fatalf("Await() unexpected error: %v", err)
	}
	if got != "CourierA" {
		t.Errorf("Await() = %q, want %q", got, "CourierA")
	}

	boom := errors.New("boom")
	got, err = Await[string](ctx, stubFuture{value: "ignored", err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Await() error = %v, want %v", err, boom)
	}
	if got != "" {
		t.Errorf("Await() on error = %q, want zero value", got)
	}
}

func TestInput(t *testing.T) {
	ctx := stubContext{Context: context.Background(), input: "Europe"}

	got, err := Input[string](ctx)
	if err != nil {
		t.Fatalf("Input() unexpected error: %v", err)
	}
	if got != "Europe" {
		t.Errorf("Input() = %q, want %q", got, "Europe")
	}
}

func TestCallFailedError(t *testing.T) {
	cause := errors.New("courier offline")
	err := error(NewCallFailedError("CourierAOrchestrator", cause))

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false", err)
	}
	var cfe *CallFailedError
	if !errors.As(err, &cfe) || cfe.Name != "CourierAOrchestrator" {
		t.Errorf("errors.As() = %v, want CallFailedError naming the call", cfe)
	}
}
