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

package serde

import (
	"fmt"
	"reflect"
)

// TypeConverter converts loosely typed payloads (decoded YAML, maps from a
// previous decode) into concrete Go types using the configured serializer.
type TypeConverter struct {
	serde BinarySerde
}

// NewTypeConverter creates a new type converter using the provided serializer.
func NewTypeConverter(s BinarySerde) *TypeConverter {
	if s == nil {
		s = &JsonSerde{}
	}
	return &TypeConverter{serde: s}
}

// ConvertToType converts a value to the target type. Identical types pass
// through, numeric kinds convert when no precision is lost, everything else
// takes a serializer round trip.
func (tc *TypeConverter) ConvertToType(value any, targetType reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(targetType), nil
	}

	valueType := reflect.TypeOf(value)
	if valueType == targetType {
		return reflect.ValueOf(value), nil
	}

	if isNumericKind(valueType.Kind()) && isNumericKind(targetType.Kind()) {
		return tc.convertNumeric(value, valueType, targetType)
	}

	if valueType.Kind() == reflect.String && targetType.Kind() == reflect.String {
		return reflect.ValueOf(value).Convert(targetType), nil
	}

	return tc.convertViaSerializer(value, targetType)
}

// Assign moves value into valuePtr through a full encode/decode cycle, the
// way an orchestration input reaches the orchestration in a real run.
func (tc *TypeConverter) Assign(value any, valuePtr any) error {
	target := reflect.ValueOf(valuePtr)
	if !target.IsValid() || target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("assign target must be a non-nil pointer, got %T", valuePtr)
	}

	data, err := tc.serde.SerializeBinary(value)
	if err != nil {
		return fmt.Errorf("encode %T: %w", value, err)
	}
	if err := tc.serde.DeserializeBinary(data, valuePtr); err != nil {
		return fmt.Errorf("decode into %T: %w", valuePtr, err)
	}
	return nil
}

func (tc *TypeConverter) convertNumeric(value any, valueType, targetType reflect.Type) (reflect.Value, error) {
	src := reflect.ValueOf(value)

	if isFloatKind(valueType.Kind()) && isIntegerKind(targetType.Kind()) {
		floatVal := src.Float()
		intVal := int64(floatVal)
		if float64(intVal) != floatVal {
			return reflect.Value{}, fmt.Errorf("cannot convert %v to %v without losing precision", floatVal, targetType)
		}
		return reflect.ValueOf(intVal).Convert(targetType), nil
	}

	return src.Convert(targetType), nil
}

func (tc *TypeConverter) convertViaSerializer(value any, targetType reflect.Type) (reflect.Value, error) {
	var target reflect.Value
	if targetType.Kind() == reflect.Pointer {
		target = reflect.New(targetType.Elem())
	} else {
		target = reflect.New(targetType)
	}

	if err := tc.Assign(value, target.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("convert %T to %v: %w", value, targetType, err)
	}

	if targetType.Kind() != reflect.Pointer {
		return target.Elem(), nil
	}
	return target, nil
}

func isNumericKind(k reflect.Kind) bool {
	return isIntegerKind(k) || isFloatKind(k)
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
