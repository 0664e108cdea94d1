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

// Package dump renders values as indented text for diagnostic logging.
//
// A value is rendered in one of three shapes, chosen by what it can do:
//
//   - Record: anything implementing Record, and any map
//   - Sequence: anything implementing Sequence, and any slice or array
//   - scalar: everything else
//
// Records print a {type} header followed by one "name: value" line per
// field. Map entries are sorted by key. Sequences print a [length] header
// followed by their elements. Pointers render as what they point to. Structs
// that do not implement Record render as a bare {type} placeholder.
// Nested composites are indented one level deeper. A composite that is
// reached again while it is still being rendered prints <cyclic reference>
// instead of recursing.
//
// The output is meant for humans and is never parsed back, but it is
// deterministic: the same value always renders to the same text.
package dump

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultIndent is the number of spaces per nesting level.
	DefaultIndent = 2

	// Nil is the placeholder rendered for nil values.
	Nil = "~"

	// CyclicReference is rendered in place of a composite that is already
	// being rendered further up the same path.
	CyclicReference = "<cyclic reference>"
)

// Field is one named attribute of a Record.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for building a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Record is implemented by values that render as a set of named fields.
type Record interface {
	DumpFields() []Field
}

// Sequence is implemented by values that render as an ordered list.
type Sequence interface {
	DumpElements() []any
}

type seq[T any] []T

func (s seq[T]) DumpElements() []any {
	out := make([]any, len(s))
	for i, item := range s {
		out[i] = item
	}
	return out
}

// Seq adapts a typed slice into a Sequence.
func Seq[T any](items []T) Sequence {
	return seq[T](items)
}

// Value renders v with the default indent.
func Value(v any) string {
	return Indented(v, DefaultIndent)
}

// Indented renders v using size spaces per nesting level. Sizes below zero
// are treated as zero.
func Indented(v any, size int) string {
	d := &dumper{
		indent: max(size, 0),
		onPath: make(map[identity]struct{}),
	}
	d.element(v, 0)
	return d.buf.String()
}

// identity distinguishes composite values by type and address. Values
// without an address (plain structs, scalars) cannot close a cycle and have
// no identity.
type identity struct {
	typ reflect.Type
	ptr uintptr
}

type dumper struct {
	indent int
	buf    strings.Builder
	onPath map[identity]struct{}
}

func (d *dumper) write(level int, format string, args ...any) {
	d.buf.WriteString(strings.Repeat(" ", level*d.indent))
	fmt.Fprintf(&d.buf, format, args...)
	d.buf.WriteByte('\n')
}

func (d *dumper) element(v any, level int) {
	if isNil(v) {
		d.write(level, "%s", Nil)
		return
	}
	if d.cyclic(v) {
		d.write(level, "%s", CyclicReference)
		return
	}

	switch shapeOf(v) {
	case shapeRecord:
		target := d.enter(v)
		d.write(level, "{%T}", target)
		d.fields(recordFields(target), level+1)
		d.leave(v)
	case shapeSequence:
		target := d.enter(v)
		elems := sequenceElements(target)
		d.write(level, "[%d]", len(elems))
		for _, elem := range elems {
			d.element(elem, level+1)
		}
		d.leave(v)
	default:
		d.write(level, "%s", scalar(v))
	}
}

func (d *dumper) fields(fields []Field, level int) {
	for _, f := range fields {
		switch {
		case shapeOf(f.Value) == shapeScalar:
			d.write(level, "%s: %s", f.Name, scalar(f.Value))
		case d.cyclic(f.Value):
			d.write(level, "%s: %s", f.Name, CyclicReference)
		default:
			d.write(level, "%s:", f.Name)
			d.element(f.Value, level+1)
		}
	}
}

// cyclic reports whether v, or the value it points to, is already on the
// current path.
func (d *dumper) cyclic(v any) bool {
	for _, id := range identities(v) {
		if _, seen := d.onPath[id]; seen {
			return true
		}
	}
	return false
}

// enter marks v and the value it points to as being rendered and returns
// that value.
func (d *dumper) enter(v any) any {
	for _, id := range identities(v) {
		d.onPath[id] = struct{}{}
	}
	target, _ := deref(v)
	return target
}

func (d *dumper) leave(v any) {
	for _, id := range identities(v) {
		delete(d.onPath, id)
	}
}

type shape int

const (
	shapeScalar shape = iota
	shapeRecord
	shapeSequence
)

func shapeOf(v any) shape {
	if isNil(v) {
		return shapeScalar
	}
	switch v.(type) {
	case Record:
		return shapeRecord
	case Sequence:
		return shapeSequence
	case time.Time, time.Duration, error, fmt.Stringer:
		return shapeScalar
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map:
		return shapeRecord
	case reflect.Slice, reflect.Array:
		return shapeSequence
	case reflect.Pointer:
		target, ok := deref(v)
		if !ok {
			return shapeScalar
		}
		return shapeOf(target)
	}
	return shapeScalar
}

// deref follows pointers until it reaches a non-pointer, a nil pointer or a
// pointer that renders itself. ok is false when the chain loops.
func deref(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	seen := make(map[uintptr]struct{})
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		switch rv.Interface().(type) {
		case Record, Sequence, error, fmt.Stringer:
			return rv.Interface(), true
		}
		if _, loop := seen[rv.Pointer()]; loop {
			return v, false
		}
		seen[rv.Pointer()] = struct{}{}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func recordFields(v any) []Field {
	if r, ok := v.(Record); ok {
		return r.DumpFields()
	}
	return mapFields(reflect.ValueOf(v))
}

func sequenceElements(v any) []any {
	if s, ok := v.(Sequence); ok {
		return s.DumpElements()
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// mapFields lists map entries with numeric keys in numeric order and every
// other key in the order of its rendering.
func mapFields(rv reflect.Value) []Field {
	type entry struct {
		key   reflect.Value
		name  string
		value any
	}
	entries := make([]entry, 0, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		entries = append(entries, entry{
			key:   iter.Key(),
			name:  keyName(iter.Key()),
			value: iter.Value().Interface(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].key, entries[j].key
		if a.Kind() == b.Kind() {
			switch a.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return a.Int() < b.Int()
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
				return a.Uint() < b.Uint()
			case reflect.Float32, reflect.Float64:
				return a.Float() < b.Float()
			}
		}
		return entries[i].name < entries[j].name
	})

	fields := make([]Field, len(entries))
	for i, e := range entries {
		fields[i] = Field{Name: e.name, Value: e.value}
	}
	return fields
}

func keyName(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return scalar(k.Interface())
}

func scalar(v any) string {
	if isNil(v) {
		return Nil
	}
	switch s := v.(type) {
	case string:
		return strconv.Quote(s)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int8:
		return strconv.FormatInt(int64(s), 10)
	case int16:
		return strconv.FormatInt(int64(s), 10)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint:
		return strconv.FormatUint(uint64(s), 10)
	case uint8:
		return strconv.FormatUint(uint64(s), 10)
	case uint16:
		return strconv.FormatUint(uint64(s), 10)
	case uint32:
		return strconv.FormatUint(uint64(s), 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format(time.DateOnly)
	case time.Duration:
		return s.String()
	case error:
		return s.Error()
	case fmt.Stringer:
		return s.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer:
		target, ok := deref(v)
		if !ok {
			return CyclicReference
		}
		return scalar(target)
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return fmt.Sprintf("{%T}", v)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("<%T>", v)
	}
	// Named booleans, numbers and strings.
	return fmt.Sprintf("%v", v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// identities returns the identity of v and, when v is a pointer to another
// composite, the identity of that composite too.
func identities(v any) []identity {
	var ids []identity
	if id, ok := identityOf(v); ok {
		ids = append(ids, id)
	}
	if reflect.ValueOf(v).Kind() != reflect.Pointer {
		return ids
	}
	target, ok := deref(v)
	if !ok {
		return ids
	}
	if id, ok := identityOf(target); ok && (len(ids) == 0 || id != ids[0]) {
		ids = append(ids, id)
	}
	return ids
}

func identityOf(v any) (identity, bool) {
	if v == nil {
		return identity{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	}
	return identity{}, false
}
