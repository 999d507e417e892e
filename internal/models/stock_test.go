package models

import (
	"math"
	"testing"
)

func TestValidPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  bool
	}{
		{150.25, true},
		{0.0001, true},
		{0, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		if got := ValidPrice(tt.price); got != tt.want {
			t.Errorf("ValidPrice(%v) = %v, want %v", tt.price, got, tt.want)
		}
	}
}
