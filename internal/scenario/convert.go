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

package scenario

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/ngnhng/orchtest/api/serde"
	"github.com/ngnhng/orchtest/sdk/testkit"
)

// Result types a binding may declare.
const (
	TypeNone    = "none"
	TypeBool    = "bool"
	TypeString  = "string"
	TypeInt     = "int"
	TypeFloat64 = "float64"
	TypeMap     = "map"
)

var resultTypes = []string{TypeBool, TypeString, TypeInt, TypeFloat64, TypeMap}

// ParseTimes reads an expected call count. It accepts a bare number and the
// phrases testkit.Times renders, with "once" short for "exactly once".
func ParseTimes(s string) (testkit.Times, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "never":
		return testkit.Never(), nil
	case "once", "exactly once":
		return testkit.Once(), nil
	case "at most once":
		return testkit.AtMostOnce(), nil
	case "at least once":
		return testkit.AtLeastOnce(), nil
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return testkit.Exactly(n), nil
	}

	var a, b int
	if _, err := fmt.Sscanf(s, "exactly %d times", &a); err == nil && a >= 0 {
		return testkit.Exactly(a), nil
	}
	if _, err := fmt.Sscanf(s, "at least %d times", &a); err == nil && a >= 0 {
		return testkit.AtLeast(a), nil
	}
	if _, err := fmt.Sscanf(s, "at most %d times", &a); err == nil && a >= 0 {
		return testkit.AtMost(a), nil
	}
	if _, err := fmt.Sscanf(s, "between %d and %d times", &a, &b); err == nil && a >= 0 && a <= b {
		return testkit.Between(a, b), nil
	}
	return testkit.Times{}, fmt.Errorf("cannot read call count %q", s)
}

// producer turns a binding's declared result into a testkit producer. A nil
// producer binds the call as fire-and-forget.
func (b Binding) producer(tc *serde.TypeConverter) (testkit.Producer, error) {
	if tc == nil {
		tc = serde.NewTypeConverter(nil)
	}

	switch b.Type {
	case "", TypeNone:
		return nil, nil
	case TypeBool:
		return typed[bool](tc, b)
	case TypeString:
		return typed[string](tc, b)
	case TypeInt:
		return typed[int](tc, b)
	case TypeFloat64:
		return typed[float64](tc, b)
	case TypeMap:
		return typed[map[string]any](tc, b)
	}
	return nil, fmt.Errorf("unknown result type %q", b.Type)
}

func typed[T any](tc *serde.TypeConverter, b Binding) (testkit.Producer, error) {
	if b.Fails != "" {
		return testkit.Fails[T](errors.New(b.Fails)), nil
	}

	rv, err := tc.ConvertToType(b.Returns, reflect.TypeFor[T]())
	if err != nil {
		return nil, fmt.Errorf("%s %q returns: %w", b.Call, b.Name, err)
	}
	v, _ := rv.Interface().(T)
	return testkit.Return(v), nil
}

// normalize round-trips v through JSON so values decoded from YAML and values
// produced by an orchestration compare on equal terms.
func normalize(tc serde.BinarySerde, v any) (any, error) {
	data, err := tc.SerializeBinary(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := tc.DeserializeBinary(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// subsetDiff lists where got departs from want. Maps in want only constrain
// the keys they name.
func subsetDiff(path string, want, got any) []string {
	wantMap, ok := want.(map[string]any)
	if !ok {
		if assert.ObjectsAreEqual(want, got) {
			return nil
		}
		return []string{fmt.Sprintf("%s: want %v, got %v", path, want, got)}
	}

	gotMap, ok := got.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s: want an object, got %v", path, got)}
	}

	keys := make([]string, 0, len(wantMap))
	for k := range wantMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diffs []string
	for _, k := range keys {
		g, present := gotMap[k]
		if !present {
			diffs = append(diffs, fmt.Sprintf("%s.%s: missing", path, k))
			continue
		}
		diffs = append(diffs, subsetDiff(path+"."+k, wantMap[k], g)...)
	}
	return diffs
}
