package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		sep  string
		want []string
	}{
		{name: "simple", in: "a,b,c", sep: ",", want: []string{"a", "b", "c"}},
		{name: "spaces", in: " piet , klaas ", sep: ",", want: []string{"piet", "klaas"}},
		{name: "empty parts", in: "a,,b,", sep: ",", want: []string{"a", "b"}},
		{name: "empty", in: "", sep: ",", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAndTrim(tt.in, tt.sep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "all empty", in: []string{" ", ""}, want: nil},
		{name: "trim and dedup", in: []string{" piet", "klaas", "piet "}, want: []string{"piet", "klaas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
