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
	"errors"
	"fmt"
)

var (
	// ErrInvalidRetryOptions is returned when a retry call carries options the engine rejects
	ErrInvalidRetryOptions = errors.New("invalid retry options")
)

// CallFailedError wraps the failure of an activity or sub-orchestration.
type CallFailedError struct {
	Name  string
	Cause error
}

func (e *CallFailedError) Error() string {
	return fmt.Sprintf("call %q failed: %v", e.Name, e.Cause)
}

func (e *CallFailedError) Unwrap() error {
	return e.Cause
}

// NewCallFailedError creates a new CallFailedError
func NewCallFailedError(name string, cause error) *CallFailedError {
	return &CallFailedError{Name: name, Cause: cause}
}
