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

	"github.com/gofrs/uuid/v5"

	"github.com/ngnhng/orchtest/sdk/orchestration"
)

// simContext is the orchestration.Context handed to the orchestration under
// test. Every call resolves immediately against the owning Registry.
type simContext struct {
	context.Context

	reg        *Registry
	instanceID string
	subSeq     int
}

var _ orchestration.Context = (*simContext)(nil)

func (c *simContext) InstanceID() string {
	return c.instanceID
}

func (c *simContext) GetInput(valuePtr any) error {
	return c.reg.readInput(valuePtr)
}

func (c *simContext) CallActivity(name string, args ...any) orchestration.Future {
	return c.reg.intercept(bindingKey{kind: KindActivity, name: name}, nil, "", args)
}

func (c *simContext) CallActivityWithRetry(name string, opts orchestration.RetryOptions, args ...any) orchestration.Future {
	return c.reg.intercept(bindingKey{kind: KindActivity, retry: true, name: name}, &opts, "", args)
}

func (c *simContext) CallSubOrchestrator(name, instanceID string, args ...any) orchestration.Future {
	instanceID = c.childInstanceID(name, instanceID)
	return c.reg.intercept(bindingKey{kind: KindSubOrchestrator, name: name}, nil, instanceID, args)
}

func (c *simContext) CallSubOrchestratorWithRetry(name string, opts orchestration.RetryOptions, instanceID string, args ...any) orchestration.Future {
	instanceID = c.childInstanceID(name, instanceID)
	return c.reg.intercept(bindingKey{kind: KindSubOrchestrator, retry: true, name: name}, &opts, instanceID, args)
}

// childInstanceID keeps a caller supplied id and otherwise derives one from
// the parent id and the call position, so reruns produce the same ids.
func (c *simContext) childInstanceID(name, instanceID string) string {
	c.subSeq++
	if instanceID != "" {
		return instanceID
	}

	ns, err := uuid.FromString(c.instanceID)
	if err != nil {
		ns = uuid.NewV5(uuid.NamespaceURL, c.instanceID)
	}
	return uuid.NewV5(ns, fmt.Sprintf("%s#%d", name, c.subSeq)).String()
}

// future is already resolved when the orchestration receives it.
type future struct {
	reg      *Registry
	key      bindingKey
	producer Producer
	value    any
	err      error
}

var _ orchestration.Future = (*future)(nil)

// Get assigns the bound result to valuePtr. Awaiting a typed result without
// a pointer, a fire-and-forget call with one, or a result of another type is
// a configuration error; nothing is coerced.
func (f *future) Get(_ context.Context, valuePtr any) error {
	if f.err != nil {
		return f.err
	}

	if f.producer == nil {
		if valuePtr != nil {
			return f.fail(ReasonKindMismatch, fmt.Sprintf("bound without a result, awaited into %T", valuePtr))
		}
		return nil
	}

	if valuePtr == nil {
		return f.fail(ReasonKindMismatch, fmt.Sprintf("bound with a %s result, awaited without one", f.producer.resultType()))
	}

	if !f.producer.assign(f.value, valuePtr) {
		return f.fail(ReasonTypeMismatch, fmt.Sprintf("bound with a %s result, awaited into %T", f.producer.resultType(), valuePtr))
	}
	return nil
}

func (f *future) fail(reason Reason, detail string) error {
	err := f.key.configError(reason, detail)
	f.reg.report(err)
	return err
}
