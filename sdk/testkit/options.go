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
	"log/slog"

	"github.com/stretchr/testify/assert"

	"github.com/ngnhng/orchtest/api/serde"
	"github.com/ngnhng/orchtest/internal/config"
)

// Option configures a Registry.
type Option func(*Registry)

// WithInput sets the value the orchestration reads through GetInput.
func WithInput[T any](v T) Option {
	return func(r *Registry) {
		r.input = &inputValue{
			value: v,
			assign: func(valuePtr any) bool {
				dst, ok := valuePtr.(*T)
				if !ok || dst == nil {
					return false
				}
				*dst = v
				return true
			},
		}
	}
}

// WithLogger sets the logger for interception dumps and diagram lines.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithLogf routes log output to a printf-style sink, typically t.Logf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(r *Registry) {
		r.logf = logf
	}
}

// WithDump logs a rendering of every produced payload.
func WithDump(enabled bool) Option {
	return func(r *Registry) {
		r.dump = enabled
	}
}

func WithDumpIndent(size int) Option {
	return func(r *Registry) {
		r.dumpIndent = size
	}
}

// WithSerde pushes call arguments and the orchestration input through s,
// the way a real engine moves them between processes.
func WithSerde(s serde.BinarySerde) Option {
	return func(r *Registry) {
		r.serde = s
	}
}

// WithInstanceID sets the id of the orchestration under test.
func WithInstanceID(id string) Option {
	return func(r *Registry) {
		r.instanceID = id
	}
}

// WithContext sets the parent of the simulated orchestration context.
func WithContext(ctx context.Context) Option {
	return func(r *Registry) {
		r.ctx = ctx
	}
}

// FromEnv applies the ORCHTEST_* environment configuration. Invalid
// configuration is reported to the test.
func FromEnv() Option {
	return func(r *Registry) {
		cfg, err := config.Load()
		if err != nil {
			assert.Fail(r.t, "invalid harness configuration", err.Error())
			return
		}
		r.dump = cfg.Dump
		r.dumpIndent = cfg.DumpIndent
		r.serde = cfg.PayloadSerde()
		r.level = cfg.LogLevel()
	}
}
