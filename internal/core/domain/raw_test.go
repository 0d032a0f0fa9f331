package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject(t *testing.T) {
	obj, err := ParseObject([]byte(`{
		"bill": {
			"number": "1234",
			"congress": 118,
			"title": "A bill",
			"flag": true,
			"missing": null,
			"actions": [{"text": "one"}, {"text": "two"}]
		}
	}`))
	require.NoError(t, err)

	bill := obj.Lookup("bill")
	assert.Equal(t, KindObject, bill.Kind())

	congress, ok := obj.Lookup("bill", "congress").AsInt()
	require.True(t, ok)
	assert.Equal(t, 118, congress)

	number, ok := obj.Lookup("bill", "number").AsInt()
	require.True(t, ok)
	assert.Equal(t, 1234, number)

	flag, ok := obj.Lookup("bill", "flag").AsBool()
	require.True(t, ok)
	assert.True(t, flag)

	assert.True(t, obj.Lookup("bill", "missing").IsNull())
	assert.True(t, obj.Lookup("bill", "nope", "deeper").IsNull())

	actions, ok := obj.Lookup("bill", "actions").AsArray()
	require.True(t, ok)
	require.Len(t, actions, 2)
	first, ok := actions[0].AsObject()
	require.True(t, ok)
	text, _ := first.Lookup("text").AsString()
	assert.Equal(t, "one", text)
}

func TestParseObject_Invalid(t *testing.T) {
	_, err := ParseObject([]byte(`{"broken":`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseObject([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValue_AsString(t *testing.T) {
	s, ok := NumberValue(1234).AsString()
	assert.True(t, ok)
	assert.Equal(t, "1234", s)

	s, ok = BoolValue(false).AsString()
	assert.True(t, ok)
	assert.Equal(t, "false", s)

	_, ok = ArrayValue().AsString()
	assert.False(t, ok)

	_, ok = Value{}.AsString()
	assert.False(t, ok)
}

func TestValue_AsInt(t *testing.T) {
	_, ok := NumberValue(1.5).AsInt()
	assert.False(t, ok)

	_, ok = StringValue("twelve").AsInt()
	assert.False(t, ok)

	n, ok := StringValue(" 12 ").AsInt()
	assert.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestValue_AsTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-03-01", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2023-03-01T12:30:00Z", time.Date(2023, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"2023-03-01T12:30:00", time.Date(2023, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"March 1st", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := StringValue(tt.in).AsTime()
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestObject_Keys(t *testing.T) {
	obj := Object{"b": Value{}, "a": Value{}, "c": Value{}}
	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "unknown", ValueKind(99).String())
}
