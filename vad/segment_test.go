package vad

import (
	"reflect"
	"testing"

	"github.com/kbukum/speechkit/audio"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []Segment
		n    int
		want []Segment
	}{
		{"empty", nil, 10, []Segment{}},
		{"clamps", []Segment{{-5, 3}, {8, 20}}, 10, []Segment{{0, 3}, {8, 10}}},
		{"drops empty", []Segment{{4, 4}, {6, 2}}, 10, []Segment{}},
		{"sorts", []Segment{{6, 8}, {1, 2}}, 10, []Segment{{1, 2}, {6, 8}}},
		{"merges overlap", []Segment{{1, 5}, {4, 7}}, 10, []Segment{{1, 7}}},
		{"merges touching", []Segment{{1, 3}, {3, 5}}, 10, []Segment{{1, 5}}},
		{"contained", []Segment{{1, 9}, {2, 3}}, 10, []Segment{{1, 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcat(t *testing.T) {
	buf := audio.Buffer{0, 1, 2, 3, 4, 5, 6, 7}
	got := Concat(buf, []Segment{{1, 3}, {5, 7}})
	want := audio.Buffer{1, 2, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concat() = %v, want %v", got, want)
	}

	got[0] = 42
	if buf[1] != 1 {
		t.Error("Concat must not alias the input")
	}
}
