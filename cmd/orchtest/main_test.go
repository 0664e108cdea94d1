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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../../internal/scenario/testdata"

const wrongPrice = `
name: wrong price
orchestrator: shipping-price
input:
  continent: Antarctica
bindings:
  - call: activity
    name: IsContinentSupported
    type: bool
    returns: false
result:
  shippable: true
`

func runCLI(t *testing.T, opts *rootOptions, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ORCHTEST_PARALLELISM", "2")

	var out, errOut bytes.Buffer
	cmd := newRootCommand(opts)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := execute(context.Background(), cmd, opts)
	return out.String(), err
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, &rootOptions{}, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "shipping-price\nshipping-price-with-retry\n")
}

func TestRunCommand(t *testing.T) {
	out, err := runCLI(t, &rootOptions{}, "run", "--diagram", scenarioDir)

	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS  europe ships with courier B\n")
	assert.Contains(t, out, "PASS  unsupported continent is not shippable\n")
	assert.Contains(t, out, `      (*) -->  "IsContinentSupported"`)
	assert.Contains(t, out, "5 passed, 0 failed\n")
}

func TestRunCommandReportsFailures(t *testing.T) {
	path := writeScenario(t, wrongPrice)

	out, err := runCLI(t, &rootOptions{}, "run", path)

	require.EqualError(t, err, "1 of 1 scenarios failed")
	assert.Contains(t, out, "FAIL  wrong price\n")
	assert.Contains(t, out, "      result.shippable: want true, got false\n")
	assert.Contains(t, out, "0 passed, 1 failed\n")
}

func TestRunCommandMissingPath(t *testing.T) {
	_, err := runCLI(t, &rootOptions{}, "run", filepath.Join(t.TempDir(), "nope.yaml"))

	assert.ErrorContains(t, err, "stat")
}

func TestRunCommandRejectsInvalidConfig(t *testing.T) {
	t.Setenv("ORCHTEST_MODE", "verbose")

	_, err := runCLI(t, &rootOptions{}, "run", scenarioDir)

	assert.ErrorContains(t, err, "invalid mode")
}

func TestValidateCommand(t *testing.T) {
	unknown := writeScenario(t, "name: ghost\norchestrator: ghost\n")

	out, err := runCLI(t, &rootOptions{}, "validate", filepath.Join(scenarioDir, "europe.yaml"), unknown)

	require.EqualError(t, err, "1 of 2 files invalid")
	assert.Contains(t, out, "OK  "+filepath.Join(scenarioDir, "europe.yaml"))
	assert.Contains(t, out, `INVALID  `+unknown+`: unknown orchestrator "ghost"`)
}

func TestFailedRunClosesLogger(t *testing.T) {
	path := writeScenario(t, wrongPrice)
	opts := &rootOptions{}

	_, err := runCLI(t, opts, "run", path)

	require.EqualError(t, err, "1 of 1 scenarios failed")
	require.NotNil(t, opts.cfg)
	assert.Nil(t, opts.log)
}

func TestCloseWithoutLogger(t *testing.T) {
	assert.NoError(t, (&rootOptions{}).close(context.Background()))
}
