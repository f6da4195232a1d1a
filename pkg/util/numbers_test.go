package util

import (
	"math"
	"testing"
)

func TestFinite(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), math.MaxFloat64},
		{math.Inf(-1), -math.MaxFloat64},
		{1.5, 1.5},
		{-2, -2},
	}
	for _, c := range cases {
		if got := Finite(c.in); got != c.want {
			t.Fatalf("Finite(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
