package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalValueAccepted(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"string", `"x"`, String("x")},
		{"int", `42`, Int(42)},
		{"negative int", `-1`, Int(-1)},
		{"bool", `true`, Bool(true)},
		{"array", `[1,"a"]`, Array{Int(1), String("a")}},
		{"object", `{"k":false}`, Object{"k": Bool(false)}},
		{"nested", `{"k":{"n":[1]}}`, Object{"k": Object{"n": Array{Int(1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := UnmarshalValue([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestUnmarshalValueRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"float", `1.5`},
		{"exponent", `1e3`},
		{"null", `null`},
		{"null in array", `[null]`},
		{"float in object", `{"k":2.5}`},
		{"out of range", `99999999999999999999999999`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalValue([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestObjectJSONRoundTrip(t *testing.T) {
	obj := Object{
		"name":  String("cart"),
		"count": Int(5),
		"flags": Array{Bool(true), Bool(false)},
		"inner": Object{"deep": String("value")},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)

	var back Object
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, obj, back)
}

func TestObjectMarshalJSONSortedKeys(t *testing.T) {
	obj := Object{"b": Int(2), "a": Int(1), "c": Int(3)}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(data))
}
