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
	"errors"
	"fmt"
)

var (
	// ErrUnboundCall is returned when an orchestration makes a call nothing was bound for
	ErrUnboundCall = errors.New("unbound call")

	// ErrKindMismatch is returned when a call is awaited with a result shape other than the bound one
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrTypeMismatch is returned when a typed result is awaited into a pointer of another type
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNoInput is returned when an orchestration reads an input the test never supplied
	ErrNoInput = errors.New("no input configured")

	// ErrEmptyName is returned when a binding is registered without a call name
	ErrEmptyName = errors.New("empty call name")

	// ErrPayloadEncoding is returned when a payload cannot cross the configured serde
	ErrPayloadEncoding = errors.New("payload encoding failed")
)

// Reason classifies a ConfigError.
type Reason int

const (
	ReasonUnbound Reason = iota
	ReasonKindMismatch
	ReasonTypeMismatch
	ReasonNoInput
	ReasonEmptyName
	ReasonPayloadEncoding
)

// Err returns the sentinel error for the reason.
func (r Reason) Err() error {
	switch r {
	case ReasonUnbound:
		return ErrUnboundCall
	case ReasonKindMismatch:
		return ErrKindMismatch
	case ReasonTypeMismatch:
		return ErrTypeMismatch
	case ReasonNoInput:
		return ErrNoInput
	case ReasonEmptyName:
		return ErrEmptyName
	case ReasonPayloadEncoding:
		return ErrPayloadEncoding
	}
	return fmt.Errorf("reason(%d)", int(r))
}

func (r Reason) String() string {
	return r.Err().Error()
}

// ConfigError reports a mistake in the test setup rather than in the
// orchestration under test. It always names the call it is about.
type ConfigError struct {
	Reason Reason
	Kind   Kind
	Retry  bool
	Name   string
	Detail string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.target())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches the sentinel error of the reason.
func (e *ConfigError) Is(target error) bool {
	return target == e.Reason.Err()
}

func (e *ConfigError) target() string {
	if e.Kind == KindInput {
		return "orchestration input"
	}
	label := e.Kind.String()
	if e.Retry {
		label += " with retry"
	}
	return fmt.Sprintf("%s %q", label, e.Name)
}

// IsConfigError checks if an error is a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
