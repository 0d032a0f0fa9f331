package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueKind is the closed set of shapes a raw upstream field can take.
type ValueKind int

const (
	// KindNull is an absent or JSON null field.
	KindNull ValueKind = iota

	// KindString is a JSON string.
	KindString

	// KindNumber is a JSON number.
	KindNumber

	// KindBool is a JSON boolean.
	KindBool

	// KindArray is a JSON array.
	KindArray

	// KindObject is a JSON object.
	KindObject
)

// String returns the kind name used in diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a raw upstream payload.
// The zero Value is null, so a missing lookup is always safe to inspect.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  Object
}

// Object is a raw upstream record: field name to Value.
type Object map[string]Value

// StringValue, NumberValue, BoolValue, ArrayValue and ObjectValue build Values.
func StringValue(s string) Value      { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value     { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value          { return Value{kind: KindBool, b: b} }
func ArrayValue(items ...Value) Value { return Value{kind: KindArray, arr: items} }
func ObjectValue(o Object) Value      { return Value{kind: KindObject, obj: o} }

// Kind returns the shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null or absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the value as a string. Numbers and bools are formatted,
// since the upstream is inconsistent about quoting identifiers.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// AsInt returns the value as an int. Numeric strings are accepted.
func (v Value) AsInt() (int, bool) {
	switch v.kind {
	case KindNumber:
		if v.num != math.Trunc(v.num) || math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return 0, false
		}
		return int(v.num), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsBool returns the value as a bool. "true"/"false" strings are accepted.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.str))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// AsTime parses the value as a date or timestamp.
// Accepted layouts: RFC 3339, "2006-01-02T15:04:05" and "2006-01-02".
func (v Value) AsTime() (time.Time, bool) {
	s, ok := v.AsString()
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AsArray returns the elements of an array value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the fields of an object value.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Lookup walks a path of field names. Any missing or non-object step yields null.
func (o Object) Lookup(path ...string) Value {
	cur := ObjectValue(o)
	for _, field := range path {
		obj, ok := cur.AsObject()
		if !ok {
			return Value{}
		}
		cur = obj[field]
	}
	return cur
}

// Keys returns the field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseObject decodes a JSON document into an Object.
// The document root must be a JSON object.
func ParseObject(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrInvalidInput, err)
	}
	v := fromAny(root)
	obj, ok := v.AsObject()
	if !ok {
		return nil, fmt.Errorf("%w: json root is %s, want object", ErrInvalidInput, v.Kind())
	}
	return obj, nil
}

// fromAny converts the output of encoding/json into the closed Value set.
func fromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Value{}
	case string:
		return StringValue(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return StringValue(x.String())
		}
		return NumberValue(f)
	case float64:
		return NumberValue(x)
	case bool:
		return BoolValue(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = fromAny(item)
		}
		return ArrayValue(items...)
	case map[string]any:
		obj := make(Object, len(x))
		for k, item := range x {
			obj[k] = fromAny(item)
		}
		return ObjectValue(obj)
	default:
		return Value{}
	}
}

// RawResponse is a decoded upstream response before canonicalisation.
type RawResponse struct {
	// Signature identifies the request that produced this response.
	Signature RequestSignature

	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int

	// Body is the decoded JSON document.
	Body Object

	// FetchedAt is when the response was received.
	FetchedAt time.Time
}
