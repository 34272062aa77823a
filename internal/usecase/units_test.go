package usecase

import (
	"math"
	"testing"

	"github.com/pantryport/backend/internal/domain"
)

const floatTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestParseFraction(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2 1/2", 2.5},
		{"3/4", 0.75},
		{"1/2", 0.5},
		{"2", 2},
		{"2.5", 2.5},
		{"", 0},
		{"garbage", 0},
		{"1/0", 0},
		{"a/b", 0},
		{"  1 1/4  ", 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFraction(tt.input)
			if !almostEqual(got, tt.want) {
				t.Errorf("ParseFraction(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		unit         string
		wantAmount   float64
		wantUnit     string
		wantCategory Category
	}{
		{"cups to ml", 1, "cup", 236.588, "ml", CategoryVolume},
		{"liters to ml", 1.5, "l", 1500, "ml", CategoryVolume},
		{"tablespoons to ml", 8, "tbsp", 118.296, "ml", CategoryVolume},
		{"pounds to grams", 2, "lb", 907.184, "g", CategoryWeight},
		{"kilograms to grams", 1, "kg", 1000, "g", CategoryWeight},
		{"count passes through", 3, "piece", 3, "piece", CategoryCount},
		{"alias plural cups", 2, "cups", 473.176, "ml", CategoryVolume},
		{"unknown unit passes through", 5, "bunch", 5, "bunch", CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.amount, tt.unit)
			if !almostEqual(got.Amount, tt.wantAmount) {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	t.Run("same unit sums exactly", func(t *testing.T) {
		got := Combine([]domain.Quantity{{Amount: 1, Unit: "cup"}, {Amount: 1, Unit: "cup"}})
		if got.Amount != 2 || got.Unit != "cup" {
			t.Errorf("Combine = %+v, want {2 cup}", got)
		}
	})

	t.Run("mixed volume units convert to common base", func(t *testing.T) {
		got := Combine([]domain.Quantity{{Amount: 1, Unit: "cup"}, {Amount: 8, Unit: "tbsp"}})
		// 236.588 + 118.296 = 354.884 ml
		if got.Unit != "ml" {
			t.Errorf("Unit = %q, want ml", got.Unit)
		}
		if math.Abs(got.Amount-354.884) > 0.01 {
			t.Errorf("Amount = %v, want 354.884", got.Amount)
		}
	})

	t.Run("promotes to liters at 1000 ml", func(t *testing.T) {
		got := Combine([]domain.Quantity{{Amount: 3, Unit: "cup"}, {Amount: 1, Unit: "l"}})
		if got.Unit != "l" {
			t.Errorf("Unit = %q, want l", got.Unit)
		}
		want := (3*236.588 + 1000) / 1000
		if !almostEqual(got.Amount, want) {
			t.Errorf("Amount = %v, want %v", got.Amount, want)
		}
	})

	t.Run("promotes to kilograms at 1000 g", func(t *testing.T) {
		got := Combine([]domain.Quantity{{Amount: 500, Unit: "g"}, {Amount: 2, Unit: "lb"}})
		if got.Unit != "kg" {
			t.Errorf("Unit = %q, want kg", got.Unit)
		}
		want := (500 + 2*453.592) / 1000
		if !almostEqual(got.Amount, want) {
			t.Errorf("Amount = %v, want %v", got.Amount, want)
		}
	})

	t.Run("incompatible categories keep the last seen category", func(t *testing.T) {
		// Known limitation: the volume total is dropped
		got := Combine([]domain.Quantity{{Amount: 1, Unit: "cup"}, {Amount: 200, Unit: "g"}})
		if got.Unit != "g" {
			t.Errorf("Unit = %q, want g", got.Unit)
		}
		if !almostEqual(got.Amount, 200) {
			t.Errorf("Amount = %v, want 200", got.Amount)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := Combine(nil)
		if got.Amount != 0 || got.Unit != "" {
			t.Errorf("Combine(nil) = %+v, want zero value", got)
		}
	})
}

func TestUnitCategory(t *testing.T) {
	tests := []struct {
		unit string
		want Category
	}{
		{"ml", CategoryVolume},
		{"Gallon", CategoryVolume},
		{"KG", CategoryWeight},
		{"oz", CategoryWeight},
		{"slice", CategoryCount},
		{"bunch", CategoryNone},
		{"", CategoryNone},
	}

	for _, tt := range tests {
		if got := UnitCategory(tt.unit); got != tt.want {
			t.Errorf("UnitCategory(%q) = %q, want %q", tt.unit, got, tt.want)
		}
	}
}
