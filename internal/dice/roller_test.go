package dice

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{50, 0.5},
		{100, 1},
		{150, 1},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.input)
		if err != nil {
			t.Errorf("Normalize(%v) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Normalize(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeRejectsNegative(t *testing.T) {
	_, err := Normalize(-1)
	if !errors.Is(err, ErrNegativeProbability) {
		t.Fatalf("expected ErrNegativeProbability, got %v", err)
	}
	if _, err := Normalize(math.NaN()); err == nil {
		t.Fatal("expected NaN to be rejected")
	}
}

func TestChanceBounds(t *testing.T) {
	r := NewSeededRoller(42)

	for i := 0; i < 100; i++ {
		ok, err := r.Chance(0)
		if err != nil {
			t.Fatalf("Chance(0): %v", err)
		}
		if ok {
			t.Fatal("Chance(0) should never happen")
		}

		ok, err = r.Chance(1)
		if err != nil {
			t.Fatalf("Chance(1): %v", err)
		}
		if !ok {
			t.Fatal("Chance(1) should always happen")
		}
	}

	if _, err := r.Chance(-0.1); err == nil {
		t.Fatal("expected error for negative probability")
	}
}

func TestChanceDeterministicWithSameSeed(t *testing.T) {
	r1 := NewSeededRoller(12345)
	r2 := NewSeededRoller(12345)

	for i := 0; i < 50; i++ {
		a, _ := r1.Chance(0.4)
		b, _ := r2.Chance(0.4)
		if a != b {
			t.Fatalf("roll %d mismatch: %v != %v", i, a, b)
		}
	}
}

func TestCentredRange(t *testing.T) {
	r := NewSeededRoller(7)

	for i := 0; i < 200; i++ {
		v := r.Centred(40, 8) // 40 ± 5
		if v < 35 || v > 45 {
			t.Fatalf("Centred(40, 8) = %v, outside [35, 45]", v)
		}
	}

	// Half range 0.25 rounds up to 1.
	for i := 0; i < 200; i++ {
		v := r.Centred(2, 8)
		if v < 1 || v > 3 {
			t.Fatalf("Centred(2, 8) = %v, outside [1, 3]", v)
		}
	}
}

func TestCentredWithoutVariation(t *testing.T) {
	r := NewSeededRoller(7)
	if got := r.Centred(15, 0); got != 15 {
		t.Errorf("Centred(15, 0) = %v, want 15", got)
	}
	if got := r.Centred(0, 8); got != 0 {
		t.Errorf("Centred(0, 8) = %v, want 0", got)
	}
}

func TestExpDecay(t *testing.T) {
	got := Round(ExpDecay(50, 100, 0.0217), 3)
	if got != 5.709 {
		t.Errorf("ExpDecay(50, 100, 0.0217) = %v, want 5.709", got)
	}
	if got := ExpDecay(50, 0, 0.0217); got != 50 {
		t.Errorf("ExpDecay with zero factor = %v, want 50", got)
	}
}

func TestResolveSeed(t *testing.T) {
	seed, err := ResolveSeed(99)
	if err != nil || seed != 99 {
		t.Fatalf("ResolveSeed(99) = %d, %v", seed, err)
	}
	if _, err := ResolveSeed(0); err != nil {
		t.Fatalf("ResolveSeed(0): %v", err)
	}
}
