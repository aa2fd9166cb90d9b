package tui

import (
	"slices"
	"testing"
)

func TestSeries(t *testing.T) {
	t.Parallel()
	s := NewSeries(3)
	if s.Len() != 0 || s.Latest() != 0 || s.Peak() != 0 || s.Values() != nil {
		t.Fatal("new series should be empty")
	}
	for _, v := range []float64{1, 7, 3, 4} {
		s.Add(v)
	}
	if got := s.Values(); !slices.Equal(got, []float64{7, 3, 4}) {
		t.Errorf("Values() = %v", got)
	}
	if s.Latest() != 4 || s.Peak() != 7 {
		t.Errorf("Latest() = %v, Peak() = %v", s.Latest(), s.Peak())
	}

	s.SetLimit(2)
	if got := s.Values(); !slices.Equal(got, []float64{3, 4}) {
		t.Errorf("after shrink Values() = %v", got)
	}
	s.SetLimit(5)
	s.Add(5)
	if got := s.Values(); !slices.Equal(got, []float64{3, 4, 5}) {
		t.Errorf("after grow Values() = %v", got)
	}

	got := s.Values()
	got[0] = 99
	if s.Values()[0] != 3 {
		t.Error("Values must return a copy")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Error("Clear should empty the series")
	}
	if NewSeries(0).Limit() != 1 {
		t.Error("limit is at least 1")
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"all zero", []float64{0, 0}, "▁▁"},
		{"flat", []float64{3, 3, 3}, "▄▄▄"},
		{"full range", []float64{0, 50, 100}, "▁▅█"},
		{"negative", []float64{-5, 10}, "▁█"},
		{"offset range", []float64{1e9, 2e9}, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}
