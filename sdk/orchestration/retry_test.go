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
	"testing"
	"time"
)

func TestRetryOptions_CalculateNextDelay(t *testing.T) {
	tests := []struct {
		name          string
		opts          RetryOptions
		attempt       int
		expectedDelay time.Duration
	}{
		{
			name:          "fixed delay first retry",
			opts:          NewRetryOptions(5*time.Second, 3),
			attempt:       1,
			expectedDelay: 5 * time.Second,
		},
		{
			name:          "fixed delay third retry",
			opts:          NewRetryOptions(5*time.Second, 3),
			attempt:       3,
			expectedDelay: 5 * time.Second,
		},
		{
			name: "exponential second retry",
			opts: RetryOptions{
				FirstRetryInterval: time.Second,
				MaxAttempts:        5,
				BackoffCoefficient: 2.0,
			},
			attempt:       2,
			expectedDelay: 2 * time.Second,
		},
		{
			name: "exponential capped",
			opts: RetryOptions{
				FirstRetryInterval: time.Second,
				MaxAttempts:        10,
				BackoffCoefficient: 2.0,
				MaxRetryInterval:   5 * time.Second,
			},
			attempt:       4, // 8s without the cap
			expectedDelay: 5 * time.Second,
		},
		{
			name:          "attempt zero behaves like first retry",
			opts:          NewRetryOptions(time.Second, 2),
			attempt:       0,
			expectedDelay: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay := tt.opts.CalculateNextDelay(tt.attempt)
			if delay != tt.expectedDelay {
				t.Errorf("CalculateNextDelay(%d) = %v, want %v", tt.attempt, delay, tt.expectedDelay)
			}
		})
	}
}

func TestRetryOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    RetryOptions
		wantErr bool
	}{
		{name: "fixed delay", opts: NewRetryOptions(5*time.Second, 3)},
		{name: "zero interval", opts: NewRetryOptions(0, 3), wantErr: true},
		{name: "zero attempts", opts: NewRetryOptions(time.Second, 0), wantErr: true},
		{
			name:    "coefficient below one",
			opts:    RetryOptions{FirstRetryInterval: time.Second, MaxAttempts: 2, BackoffCoefficient: 0.5},
			wantErr: true,
		},
		{
			name: "cap below first interval",
			opts: RetryOptions{
				FirstRetryInterval: 10 * time.Second,
				MaxAttempts:        2,
				BackoffCoefficient: 1,
				MaxRetryInterval:   time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRetryOptions) {
					t.Errorf("Validate() = %v, want ErrInvalidRetryOptions", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
