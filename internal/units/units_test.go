package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%q) = false, want true", u)
		}
	}
	if IsValid("furlongs") {
		t.Error("IsValid(furlongs) = true, want false")
	}
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		units string
		want  float64
	}{
		{MPS, 1.0},
		{MPH, 2.2369362920544},
		{KMPH, 3.6},
		{KPH, 3.6},
		{"unknown", 1.0},
	}
	for _, tt := range tests {
		if got := ConvertSpeed(1.0, tt.units); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertSpeed(1.0, %q) = %v, want %v", tt.units, got, tt.want)
		}
	}
}
