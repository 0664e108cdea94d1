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

// Package scenario loads YAML scenario files and runs them against the
// orchestrations registered in the examples catalogue. A scenario lists the
// bindings to install, the call counts to verify and the expected result.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Call kinds accepted in the call field of bindings and expectations.
const (
	CallActivity                 = "activity"
	CallActivityWithRetry        = "activity-with-retry"
	CallSubOrchestrator          = "sub-orchestrator"
	CallSubOrchestratorWithRetry = "sub-orchestrator-with-retry"
)

var callKinds = []string{
	CallActivity,
	CallActivityWithRetry,
	CallSubOrchestrator,
	CallSubOrchestratorWithRetry,
}

// File is one scenario.
type File struct {
	Name         string        `yaml:"name"`
	Orchestrator string        `yaml:"orchestrator"`
	Input        any           `yaml:"input"`
	Bindings     []Binding     `yaml:"bindings"`
	Expect       []Expectation `yaml:"expect"`
	Result       any           `yaml:"result"`

	// Error, when set, is a substring the orchestration error must contain.
	// Harness reports containing it are then expected too.
	Error   string `yaml:"error"`
	Diagram string `yaml:"diagram"`

	Path string `yaml:"-"`
}

// Binding installs a result for one call name.
type Binding struct {
	Call       string `yaml:"call"`
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Returns    any    `yaml:"returns"`
	Fails      string `yaml:"fails"`
	Annotation string `yaml:"annotation"`
}

// Expectation checks how often a call was made.
type Expectation struct {
	Call  string `yaml:"call"`
	Name  string `yaml:"name"`
	Times string `yaml:"times"`
}

// ValidationError reports a malformed scenario file.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Load reads and validates the scenario at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Decode reads one scenario document. Unknown fields are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Field: "file", Msg: "empty document"}
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, ordered by file name.
func LoadDir(dir string) ([]*File, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Validate checks that the scenario can be run.
func (f *File) Validate() error {
	if f.Name == "" {
		return &ValidationError{Field: "name", Msg: "is required"}
	}
	if f.Orchestrator == "" {
		return &ValidationError{Field: "orchestrator", Msg: "is required"}
	}

	for i, b := range f.Bindings {
		field := fmt.Sprintf("bindings[%d]", i)
		if err := validateCall(field, b.Call, b.Name); err != nil {
			return err
		}
		if err := b.validateResult(field); err != nil {
			return err
		}
	}

	for i, e := range f.Expect {
		field := fmt.Sprintf("expect[%d]", i)
		if err := validateCall(field, e.Call, e.Name); err != nil {
			return err
		}
		if _, err := ParseTimes(e.Times); err != nil {
			return &ValidationError{Field: field + ".times", Msg: err.Error()}
		}
	}
	return nil
}

func validateCall(field, call, name string) error {
	if !slices.Contains(callKinds, call) {
		return &ValidationError{Field: field + ".call", Msg: fmt.Sprintf("unknown call kind %q", call)}
	}
	if name == "" {
		return &ValidationError{Field: field + ".name", Msg: "is required"}
	}
	return nil
}

func (b Binding) validateResult(field string) error {
	if b.Type == "" || b.Type == TypeNone {
		if b.Returns != nil || b.Fails != "" {
			return &ValidationError{Field: field + ".type", Msg: "is required with returns or fails"}
		}
		return nil
	}
	if !slices.Contains(resultTypes, b.Type) {
		return &ValidationError{Field: field + ".type", Msg: fmt.Sprintf("unknown result type %q", b.Type)}
	}
	if b.Returns != nil && b.Fails != "" {
		return &ValidationError{Field: field, Msg: "returns and fails are exclusive"}
	}
	return nil
}
