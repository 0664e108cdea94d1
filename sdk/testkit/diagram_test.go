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
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngnhng/orchtest/sdk/orchestration"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func runSupplierFlow(t *testing.T, reg *Registry) {
	t.Helper()
	reg.Activity("IsContinentSupported", Return(true))
	reg.Activity("GetSupplierOrchestratorForContinent", Return("CourierB"), "supplier lookup")
	reg.ActivityNoResult("PublishCalculatedPriceActivity")

	ctx := reg.Context()
	_, err := orchestration.Await[bool](ctx, ctx.CallActivity("IsContinentSupported"))
	require.NoError(t, err)
	_, err = orchestration.Await[string](ctx, ctx.CallActivity("GetSupplierOrchestratorForContinent"))
	require.NoError(t, err)
	require.NoError(t, ctx.CallActivity("PublishCalculatedPriceActivity").Get(ctx, nil))
}

func TestDiagramGolden(t *testing.T) {
	reg := New(&recordingT{})
	runSupplierFlow(t, reg)

	newGoldie(t).Assert(t, "annotated_flow", []byte(reg.BuildDiagram()))
}

func TestDiagramWithoutCalls(t *testing.T) {
	reg := New(&recordingT{})

	assert.Equal(t, "--> (*)\n", reg.BuildDiagram())
}

func TestDiagramAfterDrainRendersOnlyEnd(t *testing.T) {
	reg := New(&recordingT{})
	runSupplierFlow(t, reg)

	first := reg.BuildDiagram()
	second := reg.BuildDiagram()

	assert.Contains(t, first, `(*) -->  "IsContinentSupported"`)
	assert.Equal(t, "--> (*)\n", second)
}

func TestDiagramLineFormat(t *testing.T) {
	records := []CallRecord{
		{Name: "First"},
		{Name: "Second", Annotation: "retry"},
		{Name: "Third", Annotation: "   "},
	}

	assert.Equal(t, []string{
		`(*) -->  "First"`,
		` --> [retry] "Second"`,
		` -->  "Third"`,
		`--> (*)`,
	}, diagramLines(records))

	assert.Equal(t, []string{`(*) --> [start] "Only"`, `--> (*)`},
		diagramLines([]CallRecord{{Name: "Only", Annotation: "start"}}))
}

func TestDiagramLinesAreLogged(t *testing.T) {
	logs := &logLines{}
	reg := New(&recordingT{}, WithLogf(logs.logf))
	runSupplierFlow(t, reg)

	reg.BuildDiagram()

	assert.Equal(t, []string{
		`(*) -->  "IsContinentSupported"`,
		` --> [supplier lookup] "GetSupplierOrchestratorForContinent"`,
		` -->  "PublishCalculatedPriceActivity"`,
		`--> (*)`,
	}, logs.lines)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteDiagramPropagatesWriteError(t *testing.T) {
	reg := New(&recordingT{})

	err := reg.WriteDiagram(failingWriter{})

	assert.ErrorContains(t, err, "disk full")
}
