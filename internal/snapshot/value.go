package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON value types a state may hold.
// Only Null, String, Int, Bool, Array and Object implement it.
type Value interface {
	snapshotValue()
}

// Null is the JSON null.
type Null struct{}

// String is a JSON string.
type String string

// Int is a JSON integer. There is no float type.
type Int int64

// Bool is a JSON boolean.
type Bool bool

// Array is a JSON array.
type Array []Value

// Object is a JSON object. It is the state type of scenario traces.
type Object map[string]Value

func (Null) snapshotValue()   {}
func (String) snapshotValue() {}
func (Int) snapshotValue()    {}
func (Bool) snapshotValue()   {}
func (Array) snapshotValue()  {}
func (Object) snapshotValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units, which
// differs from Go's UTF-8 byte order outside the BMP).
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// FromAny converts decoded JSON/YAML data into a Value. Integers of any
// Go integer type and integral json.Numbers are accepted; floats are not.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are not allowed in snapshots: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are not allowed in snapshots: %v", val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			sv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = sv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			sv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = sv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot type: %T", v)
	}
}

// ObjectFromAny is FromAny for values that must be objects.
func ObjectFromAny(v any) (Object, error) {
	sv, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	obj, ok := sv.(Object)
	if !ok {
		return nil, fmt.Errorf("state must be an object, got %T", sv)
	}
	return obj, nil
}

// Parse decodes a single JSON document into a Value.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return FromAny(raw)
}

// ParseObject decodes a JSON object.
func ParseObject(data []byte) (Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("state must be a JSON object, got %T", v)
	}
	return obj, nil
}

// ToAny converts v back to plain Go values (nil, string, int64, bool,
// []any, map[string]any), e.g. for encoding into CUE.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Object:
		return val.ToAny()
	default:
		return nil
	}
}

// ToAny converts the object to a map[string]any.
func (o Object) ToAny() map[string]any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = ToAny(v)
	}
	return out
}

// MarshalJSON renders the object as canonical JSON.
func (o Object) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(o)
}

// UnmarshalJSON decodes a JSON object, rejecting floats.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

// MarshalJSON renders the array as canonical JSON.
func (a Array) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(a)
}
