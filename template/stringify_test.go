package template

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type celsius float64

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestStringify(t *testing.T) {
	str := "ptr"
	var nilPtr *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "string", in: "hi", want: "hi"},
		{name: "nil", in: nil, want: "null"},
		{name: "int", in: 42, want: "42"},
		{name: "negative int64", in: int64(-7), want: "-7"},
		{name: "uint8", in: uint8(255), want: "255"},
		{name: "whole float", in: 42.0, want: "42"},
		{name: "fraction", in: 3.5, want: "3.5"},
		{name: "float32", in: float32(0.1), want: "0.1"},
		{name: "large float", in: 1e21, want: "1e+21"},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "inf", in: math.Inf(-1), want: "-Infinity"},
		{name: "named float", in: celsius(21.5), want: "21.5"},
		{name: "bool", in: false, want: "false"},
		{name: "bytes", in: []byte("raw"), want: "raw"},
		{name: "string slice", in: []string{"a", "b", "c"}, want: "a,b,c"},
		{name: "mixed slice", in: []any{1, "x", true, nil}, want: "1,x,true,"},
		{name: "nested slice", in: []any{[]int{1, 2}, []int{3}}, want: "1,2,3"},
		{name: "empty slice", in: []int{}, want: ""},
		{name: "array", in: [2]int{4, 5}, want: "4,5"},
		{name: "map", in: map[string]any{"b": 2, "a": 1}, want: `{"a":1,"b":2}`},
		{name: "struct", in: point{X: 1, Y: 2}, want: `{"x":1,"y":2}`},
		{name: "pointer", in: &str, want: "ptr"},
		{name: "nil pointer", in: nilPtr, want: "null"},
		{name: "stringer", in: 90 * time.Second, want: "1m30s"},
		{name: "error", in: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}
