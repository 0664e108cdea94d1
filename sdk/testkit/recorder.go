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

import "slices"

// CallRecord is one intercepted call. Payload is the value the bound
// producer returned, the failure for calls bound with Fails, or nil for
// fire-and-forget calls.
type CallRecord struct {
	Name       string
	Payload    any
	Annotation string
}

// Recorder is the ordered log of intercepted calls. Only the owning
// Registry appends to it and only diagram rendering drains it.
type Recorder struct {
	records []CallRecord
}

func (r *Recorder) record(name string, payload any, annotation string) {
	r.records = append(r.records, CallRecord{
		Name:       name,
		Payload:    payload,
		Annotation: annotation,
	})
}

// drainAll removes and returns every pending record in call order.
func (r *Recorder) drainAll() []CallRecord {
	drained := r.records
	r.records = nil
	if drained == nil {
		return []CallRecord{}
	}
	return drained
}

func (r *Recorder) snapshot() []CallRecord {
	return slices.Clone(r.records)
}

// Len reports the number of records not yet drained.
func (r *Recorder) Len() int {
	return len(r.records)
}
