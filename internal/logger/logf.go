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

package logger

import (
	"context"
	"log/slog"
	"strings"
)

// LogfHandler routes records to a printf-style sink such as testing.T.Logf.
// Info records print the bare message so that diagram lines stay readable;
// other levels are prefixed with the level name.
type LogfHandler struct {
	logf  func(format string, args ...any)
	level slog.Leveler
	attrs []slog.Attr
}

var _ slog.Handler = (*LogfHandler)(nil)

func NewLogfHandler(logf func(format string, args ...any), level slog.Leveler) *LogfHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &LogfHandler{logf: logf, level: level}
}

// Handle implements slog.Handler
func (h *LogfHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if r.Level != slog.LevelInfo {
		b.WriteString(r.Level.String())
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)
	b.WriteString(formatAttributes(collectAttrs(h.attrs, r)))

	h.logf("%s", b.String())
	return nil
}

// WithAttrs implements slog.Handler
func (h *LogfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogfHandler{
		logf:  h.logf,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler
func (h *LogfHandler) WithGroup(string) slog.Handler {
	return h
}

// Enabled implements slog.Handler
func (h *LogfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}
