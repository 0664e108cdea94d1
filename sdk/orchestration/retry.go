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
	"fmt"
	"math"
	"time"
)

// RetryOptions defines how a call is retried on failure.
type RetryOptions struct {
	// Delay before the first retry.
	FirstRetryInterval time.Duration

	// Maximum number of attempts, including the first one.
	MaxAttempts int

	// Multiplier applied to the delay after each retry. Must be 1 or larger.
	BackoffCoefficient float64

	// Cap for the delay between retries. Zero means no cap.
	MaxRetryInterval time.Duration
}

// NewRetryOptions returns options with a fixed delay between attempts.
func NewRetryOptions(firstRetryInterval time.Duration, maxAttempts int) RetryOptions {
	return RetryOptions{
		FirstRetryInterval: firstRetryInterval,
		MaxAttempts:        maxAttempts,
		BackoffCoefficient: 1.0,
	}
}

// Validate reports whether the engine would accept the options.
func (r RetryOptions) Validate() error {
	if r.FirstRetryInterval <= 0 {
		return fmt.Errorf("%w: first retry interval must be positive, got %s", ErrInvalidRetryOptions, r.FirstRetryInterval)
	}
	if r.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidRetryOptions, r.MaxAttempts)
	}
	if r.BackoffCoefficient < 1 {
		return fmt.Errorf("%w: backoff coefficient must be at least 1, got %v", ErrInvalidRetryOptions, r.BackoffCoefficient)
	}
	if r.MaxRetryInterval != 0 && r.MaxRetryInterval < r.FirstRetryInterval {
		return fmt.Errorf("%w: max retry interval %s is below first retry interval %s",
			ErrInvalidRetryOptions, r.MaxRetryInterval, r.FirstRetryInterval)
	}
	return nil
}

// CalculateNextDelay calculates the delay before the given retry attempt,
// counting the first retry as attempt 1.
func (r RetryOptions) CalculateNextDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return r.FirstRetryInterval
	}

	nextDelay := time.Duration(
		float64(r.FirstRetryInterval) *
			math.Pow(r.BackoffCoefficient, float64(attempt-1)),
	)

	if r.MaxRetryInterval > 0 {
		nextDelay = min(nextDelay, r.MaxRetryInterval)
	}
	return nextDelay
}
