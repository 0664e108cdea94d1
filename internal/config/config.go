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

package config

import (
	"errors"
	"fmt"

	env "github.com/caarlos0/env/v11"

	"github.com/ngnhng/orchtest/api/serde"
)

// EnvPrefix is prepended to every environment variable the config reads.
const EnvPrefix = "ORCHTEST_"

const maxDumpIndent = 16

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// Config holds the complete harness configuration
type Config struct {
	Service     string       `json:"service_name" env:"APP_NAME"    envDefault:"orchtest"`
	Version     string       `json:"version"      env:"VERSION"     envDefault:"v0.1.0"`
	Mode        Mode         `json:"mode"         env:"MODE"        envDefault:"debug"`
	Dump        bool         `json:"dump"         env:"DUMP"        envDefault:"false"`
	DumpIndent  int          `json:"dump_indent"  env:"DUMP_INDENT" envDefault:"2"`
	Serde       string       `json:"serde"        env:"SERDE"       envDefault:"none"` // none|json|msgpack
	Parallelism int          `json:"parallelism"  env:"PARALLELISM" envDefault:"4"`
	Logger      LoggerConfig `json:"logger"       envPrefix:"LOG_"`
}

// Load reads the configuration from ORCHTEST_* environment variables,
// falling back to defaults, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the harness cannot act on.
func (c *Config) Validate() error {
	var errs []error

	if c.Service == "" {
		errs = append(errs, errors.New("service name is required"))
	}

	switch c.Mode {
	case ModeDebug, ModeRelease:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q: must be debug or release", c.Mode))
	}

	if c.DumpIndent < 0 || c.DumpIndent > maxDumpIndent {
		errs = append(errs, fmt.Errorf("invalid dump indent %d: must be between 0 and %d", c.DumpIndent, maxDumpIndent))
	}

	if _, err := serde.ByName(c.Serde); err != nil {
		errs = append(errs, err)
	}

	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("invalid parallelism %d: must be at least 1", c.Parallelism))
	}

	if err := c.Logger.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PayloadSerde resolves the configured serde. It returns nil when payloads
// are handed over in memory.
func (c *Config) PayloadSerde() serde.BinarySerde {
	s, err := serde.ByName(c.Serde)
	if err != nil {
		return nil
	}
	return s
}

func (c *Config) ServiceName() string {
	return c.Service
}

func (c *Config) GetVersion() string {
	return c.Version
}
