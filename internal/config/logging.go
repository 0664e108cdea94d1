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
	"fmt"
	"log/slog"
	"strings"
)

const (
	OTELExporterNone     = "none"
	OTELExporterOTLPHTTP = "otlp-http"
	OTELExporterOTLPGRPC = "otlp-grpc"
)

type LoggerConfig struct {
	Level        string `json:"level"         env:"LEVEL"         envDefault:"info"` // trace|debug|info|warn|error
	Format       string `json:"format"        env:"FORMAT"        envDefault:"auto"` // auto|json|text|pretty
	OTELExporter string `json:"otel_exporter" env:"OTEL_EXPORTER" envDefault:"none"` // none|otlp-http|otlp-grpc
	OTELEndpoint string `json:"otel_endpoint" env:"OTEL_ENDPOINT"`
}

func (lc *LoggerConfig) Validate() error {
	if lc.ParseLevel() == "" {
		return fmt.Errorf("invalid log level %q: must be one of trace, debug, info, warn, error", lc.Level)
	}

	switch strings.ToLower(lc.Format) {
	case "", "auto", "json", "text", "pretty":
	default:
		return fmt.Errorf("invalid log format %q: must be one of auto, json, text, pretty", lc.Format)
	}

	switch lc.OTELExporter {
	case "", OTELExporterNone, OTELExporterOTLPHTTP, OTELExporterOTLPGRPC:
	default:
		return fmt.Errorf("invalid log exporter %q: must be one of none, otlp-http, otlp-grpc", lc.OTELExporter)
	}

	return nil
}

// ParseLevel normalises the configured level. An empty level means info;
// an unknown one yields the empty string.
func (lc *LoggerConfig) ParseLevel() string {
	if lc == nil {
		return "info"
	}
	lvl := strings.ToLower(strings.TrimSpace(lc.Level))
	switch lvl {
	case "":
		return "info"
	case "trace", "debug", "info", "warn", "error":
		return lvl
	default:
		return ""
	}
}

// Interface compliance helpers for logger.LoggerOptions
func (c *Config) LogLevel() slog.Level {
	switch c.Logger.ParseLevel() {
	case "trace":
		return slog.Level(-8)
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) LogFormat() string    { return strings.ToLower(c.Logger.Format) }
func (c *Config) OTELExporter() string { return c.Logger.OTELExporter }
func (c *Config) OTELEndpoint() string { return c.Logger.OTELEndpoint }
func (c *Config) ModeField() Mode      { return c.Mode }
