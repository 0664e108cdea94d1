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

package dump_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngnhng/orchtest/sdk/dump"
)

type node struct {
	Name string
	Next *node
}

func (n *node) DumpFields() []dump.Field {
	return []dump.Field{
		dump.F("Name", n.Name),
		dump.F("Next", n.Next),
	}
}

type pair struct {
	Left, Right *node
}

func (p pair) DumpFields() []dump.Field {
	return []dump.Field{
		dump.F("Left", p.Left),
		dump.F("Right", p.Right),
	}
}

type point struct {
	X, Y int
}

type linked struct {
	Next *linked
}

type box struct {
	Items []any
}

type holder struct {
	Box   box
	Items []any
}

func (h holder) DumpFields() []dump.Field {
	return []dump.Field{
		dump.F("Box", h.Box),
		dump.F("Items", h.Items),
	}
}

type celsius float64

func TestScalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "~\n"},
		{name: "typed nil", value: (*node)(nil), want: "~\n"},
		{name: "string", value: "CourierA", want: "\"CourierA\"\n"},
		{name: "bool", value: true, want: "true\n"},
		{name: "int", value: 42, want: "42\n"},
		{name: "uint8", value: uint8(7), want: "7\n"},
		{name: "whole float", value: 120.0, want: "120\n"},
		{name: "fractional float", value: 0.1, want: "0.1\n"},
		{name: "date", value: time.Date(2024, time.March, 1, 13, 0, 0, 0, time.UTC), want: "2024-03-01\n"},
		{name: "duration", value: 5 * time.Second, want: "5s\n"},
		{name: "error", value: errors.New("boom"), want: "boom\n"},
		{name: "unknown struct", value: point{X: 1, Y: 2}, want: "{dump_test.point}\n"},
		{name: "unknown struct pointer", value: &point{X: 1, Y: 2}, want: "{dump_test.point}\n"},
		{name: "named number", value: celsius(21.5), want: "21.5\n"},
		{name: "func", value: func() {}, want: "<func()>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dump.Value(tt.value))
		})
	}
}

func TestRecordAndSequence(t *testing.T) {
	value := map[string]any{
		"shippable": true,
		"price":     120.5,
		"tags":      []string{"express", "eu"},
		"courier":   &node{Name: "CourierB"},
	}

	want := strings.Join([]string{
		"{map[string]interface {}}",
		"  courier:",
		"    {*dump_test.node}",
		"      Name: \"CourierB\"",
		"      Next: ~",
		"  price: 120.5",
		"  shippable: true",
		"  tags:",
		"    [2]",
		"      \"express\"",
		"      \"eu\"",
		"",
	}, "\n")

	assert.Equal(t, want, dump.Value(value))
}

func TestIndentSize(t *testing.T) {
	got := dump.Indented(dump.Seq([]int{1, 2}), 4)
	assert.Equal(t, "[2]\n    1\n    2\n", got)

	got = dump.Indented([]any{"a"}, -1)
	assert.Equal(t, "[1]\n\"a\"\n", got)
}

func TestSelfReferenceTerminates(t *testing.T) {
	n := &node{Name: "loop"}
	n.Next = n

	got := dump.Value(n)

	want := "{*dump_test.node}\n  Name: \"loop\"\n  Next: <cyclic reference>\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 1, strings.Count(got, dump.CyclicReference))
}

func TestLongCycleMarkedOnce(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b"}
	c := &node{Name: "c"}
	a.Next, b.Next, c.Next = b, c, a

	got := dump.Value(a)

	require.Equal(t, 1, strings.Count(got, dump.CyclicReference))
	assert.True(t, strings.HasSuffix(got, "      Next: <cyclic reference>\n"), got)
}

func TestSharedReferenceIsNotACycle(t *testing.T) {
	shared := &node{Name: "shared"}

	got := dump.Value(pair{Left: shared, Right: shared})

	assert.NotContains(t, got, dump.CyclicReference)
	assert.Equal(t, 2, strings.Count(got, "Name: \"shared\""))
}

func TestSliceContainingItself(t *testing.T) {
	s := []any{"head", nil}
	s[1] = s

	got := dump.Value(s)

	assert.Equal(t, "[2]\n  \"head\"\n  <cyclic reference>\n", got)
}

func TestDeterministic(t *testing.T) {
	value := map[string]any{"b": 2, "a": 1, "c": map[string]any{"z": nil, "y": "x"}}

	first := dump.Value(value)
	for range 20 {
		require.Equal(t, first, dump.Value(value))
	}
}

func TestMapKeysSorted(t *testing.T) {
	got := dump.Value(map[int]string{10: "j", 2: "b", 1: "a"})

	assert.Equal(t, "{map[int]string}\n  1: \"a\"\n  2: \"b\"\n  10: \"j\"\n", got)
}

func TestArray(t *testing.T) {
	assert.Equal(t, "[2]\n  3\n  4\n", dump.Value([2]int{3, 4}))
}

func TestMapContainingItself(t *testing.T) {
	m := map[int]any{}
	m[1] = m

	got := dump.Value(m)

	assert.Equal(t, "{map[int]interface {}}\n  1: <cyclic reference>\n", got)
}

func TestMapOfSlicesContainingItself(t *testing.T) {
	m := map[string][]any{}
	m["self"] = []any{m}

	got := dump.Value(m)

	want := strings.Join([]string{
		"{map[string][]interface {}}",
		"  self:",
		"    [1]",
		"      <cyclic reference>",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMapReachedThroughPointer(t *testing.T) {
	m := map[string]any{}
	m["self"] = &m

	got := dump.Value(m)

	assert.Equal(t, "{map[string]interface {}}\n  self: <cyclic reference>\n", got)
}

func TestStructWrappingSliceContainingItself(t *testing.T) {
	items := []any{"head", nil}
	items[1] = items
	wrapped := box{Items: items}

	assert.Equal(t, "{dump_test.box}\n", dump.Value(wrapped))
	assert.Equal(t, "{dump_test.box}\n", dump.Value(&wrapped))

	got := dump.Value(holder{Box: wrapped, Items: items})

	want := strings.Join([]string{
		"{dump_test.holder}",
		"  Box: {dump_test.box}",
		"  Items:",
		"    [2]",
		"      \"head\"",
		"      <cyclic reference>",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestStructWithPointerFieldsIsStable(t *testing.T) {
	loop := &linked{}
	loop.Next = loop

	assert.Equal(t, "{dump_test.linked}\n", dump.Value(loop))
	assert.Equal(t, "{dump_test.linked}\n", dump.Value(linked{Next: &linked{}}))
}
