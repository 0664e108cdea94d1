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
	"fmt"
	"io"
	"strings"
)

const (
	diagramStart = "(*)"
	diagramEnd   = "--> (*)"
)

// BuildDiagram drains the recorded calls and renders them as a PlantUML
// activity flow, one transition per call:
//
//	(*) -->  "IsContinentSupported"
//	 --> [supplier lookup] "GetSupplierOrchestratorForContinent"
//	--> (*)
//
// Each line is also logged at info level. Rendering again without new calls
// yields only the closing transition.
func (r *Registry) BuildDiagram() string {
	var b strings.Builder
	_ = r.WriteDiagram(&b)
	return b.String()
}

// WriteDiagram drains the recorded calls and writes the diagram to w.
func (r *Registry) WriteDiagram(w io.Writer) error {
	for _, line := range diagramLines(r.recorder.drainAll()) {
		r.logger.Info(line)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
	}
	return nil
}

func diagramLines(records []CallRecord) []string {
	lines := make([]string, 0, len(records)+1)
	source := diagramStart
	for _, rec := range records {
		desc := ""
		if strings.TrimSpace(rec.Annotation) != "" {
			desc = "[" + rec.Annotation + "]"
		}
		lines = append(lines, fmt.Sprintf("%s --> %s \"%s\"", source, desc, rec.Name))
		source = ""
	}
	return append(lines, diagramEnd)
}
