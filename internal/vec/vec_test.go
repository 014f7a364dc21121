package vec

import (
	"errors"
	"math"
	"testing"
)

func TestVec_AddSubRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec
	}{
		{"planar", Vec{3, 4}, Vec{1, 2}},
		{"single", Vec{-7.5}, Vec{0.25}},
		{"wide", Vec{1e6, -1e-6, 3, 0}, Vec{0.1, 0.2, 0.3, 0.4}},
		{"empty", Vec{}, Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := tt.a.Add(tt.b)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			back, err := sum.Sub(tt.b)
			if err != nil {
				t.Fatalf("Sub: %v", err)
			}
			if !back.Equal(tt.a, 1e-9) {
				t.Errorf("a + b - b = %v, want %v", back, tt.a)
			}
		})
	}
}

func TestVec_DimensionMismatch(t *testing.T) {
	a := Vec{1, 2}
	b := Vec{1, 2, 3}

	if _, err := a.Add(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := a.Sub(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Sub: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := a.Dot(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Dot: expected ErrDimensionMismatch, got %v", err)
	}
	if err := a.Accumulate(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Accumulate: expected ErrDimensionMismatch, got %v", err)
	}
	if a[0] != 1 || a[1] != 2 {
		t.Errorf("failed Accumulate mutated receiver: %v", a)
	}
}

func TestVec_ScalarBroadcast(t *testing.T) {
	v := Vec{1, 2, 3}

	scaled := v.Scale(2)
	if !scaled.Equal(Vec{2, 4, 6}, 0) {
		t.Errorf("Scale failed: got %v", scaled)
	}

	shifted := v.AddScalar(1)
	if !shifted.Equal(Vec{2, 3, 4}, 0) {
		t.Errorf("AddScalar failed: got %v", shifted)
	}

	halved, err := v.Div(2)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !halved.Equal(Vec{0.5, 1, 1.5}, 1e-12) {
		t.Errorf("Div failed: got %v", halved)
	}

	if _, err := v.Div(0); !errors.Is(err, ErrZeroDivisor) {
		t.Errorf("expected ErrZeroDivisor, got %v", err)
	}

	if b := Broadcast(3, 7); !b.Equal(Vec{7, 7, 7}, 0) {
		t.Errorf("Broadcast failed: got %v", b)
	}
}

func TestVec_Magnitude(t *testing.T) {
	tests := []struct {
		v        Vec
		expected float64
	}{
		{Vec{3, 4}, 5.0},
		{Vec{1, 0}, 1.0},
		{Vec{0, 0}, 0.0},
		{Vec{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.v.Magnitude(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Magnitude(%v) = %v, want %v", tt.v, got, tt.expected)
		}
		dot, _ := tt.v.Dot(tt.v)
		if math.Abs(dot-tt.v.MagnitudeSquared()) > 1e-12 {
			t.Errorf("Dot with self %v != MagnitudeSquared %v", dot, tt.v.MagnitudeSquared())
		}
	}
}

func TestVec_Direction(t *testing.T) {
	for _, v := range []Vec{{3, 4}, {-1}, {0.001, 0, -0.002}, {1e8, 1e8}} {
		d, err := v.Direction()
		if err != nil {
			t.Fatalf("Direction(%v): %v", v, err)
		}
		if math.Abs(d.Magnitude()-1) > 1e-12 {
			t.Errorf("|Direction(%v)| = %v, want 1", v, d.Magnitude())
		}
	}

	if _, err := (Vec{0, 0}).Direction(); !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("expected ErrDegenerateVector, got %v", err)
	}
}

func TestVec_Accumulate(t *testing.T) {
	v := Vec{1, 1}
	if err := v.Accumulate(Vec{0.5, -2}); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if !v.Equal(Vec{1.5, -1}, 1e-12) {
		t.Errorf("Accumulate failed: got %v", v)
	}
}

func TestVec_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec
		valid bool
	}{
		{"normal", Vec{1, 2}, true},
		{"with NaN", Vec{1, math.NaN()}, false},
		{"with +Inf", Vec{math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
