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
	"reflect"
	"strings"
)

// Kind is the shape of call an orchestration makes.
type Kind int

const (
	KindActivity Kind = iota
	KindSubOrchestrator
	// KindInput only appears on errors about the orchestration input.
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindSubOrchestrator:
		return "sub-orchestrator"
	case KindInput:
		return "input"
	}
	return "unknown"
}

// Producer yields the result of a bound call. Build one with Return,
// Returns or Fails.
type Producer interface {
	produce() (any, error)
	assign(value, valuePtr any) bool
	resultType() string
}

type producer[T any] struct {
	fn func() (T, error)
}

func (p producer[T]) produce() (any, error) {
	v, err := p.fn()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (p producer[T]) assign(value, valuePtr any) bool {
	dst, ok := valuePtr.(*T)
	if !ok || dst == nil {
		return false
	}
	v, _ := value.(T)
	*dst = v
	return true
}

func (p producer[T]) resultType() string {
	return reflect.TypeFor[T]().String()
}

// Return binds a constant result.
func Return[T any](v T) Producer {
	return producer[T]{fn: func() (T, error) { return v, nil }}
}

// Returns binds a result computed each time the call is intercepted.
func Returns[T any](fn func() T) Producer {
	return producer[T]{fn: func() (T, error) { return fn(), nil }}
}

// Fails binds a call that completes with err. The call is still counted and
// recorded; awaiting it yields an orchestration.CallFailedError.
func Fails[T any](err error) Producer {
	return producer[T]{fn: func() (T, error) {
		var zero T
		return zero, err
	}}
}

type bindingKey struct {
	kind  Kind
	retry bool
	name  string
}

// method is the name the call is registered under on the mock substrate.
func (k bindingKey) method() string {
	var m string
	switch k.kind {
	case KindActivity:
		m = "Activity"
	case KindSubOrchestrator:
		m = "SubOrchestrator"
	default:
		return k.kind.String()
	}
	if k.retry {
		m += "WithRetry"
	}
	return m
}

func (k bindingKey) configError(reason Reason, detail string) *ConfigError {
	return &ConfigError{
		Reason: reason,
		Kind:   k.kind,
		Retry:  k.retry,
		Name:   k.name,
		Detail: detail,
	}
}

// binding is what a call resolves to. A nil producer means the call is
// fire-and-forget.
type binding struct {
	producer   Producer
	annotation string
}

func joinAnnotation(annotation []string) string {
	return strings.TrimSpace(strings.Join(annotation, " "))
}
