package helpers

import (
	"testing"
)

func TestParseMoneyMillionSuffix(t *testing.T) {
	result, ok := ParseMoney("$14.5M")
	if !ok || result != 14_500_000 {
		t.Errorf("Expected 14500000 but got %v", result)
	}
}

func TestParseMoneyWordSuffix(t *testing.T) {
	result, ok := ParseMoney("14.5 million")
	if !ok || result != 14_500_000 {
		t.Errorf("Expected 14500000 but got %v", result)
	}
}

func TestParseMoneyThousands(t *testing.T) {
	result, ok := ParseMoney("$500K")
	if !ok || result != 500_000 {
		t.Errorf("Expected 500000 but got %v", result)
	}
}

func TestParseMoneyCommaGrouped(t *testing.T) {
	result, ok := ParseMoney("$500,000")
	if !ok || result != 500_000 {
		t.Errorf("Expected 500000 but got %v", result)
	}
}

func TestParseMoneyPlainNumber(t *testing.T) {
	result, ok := ParseMoney("2500000")
	if !ok || result != 2_500_000 {
		t.Errorf("Expected 2500000 but got %v", result)
	}
}

func TestParseMoneyRejectsWords(t *testing.T) {
	if _, ok := ParseMoney("a lot of money"); ok {
		t.Errorf("Expected parse failure for non-numeric input")
	}
}

func TestMoneyFromMatchBillion(t *testing.T) {
	result := MoneyFromMatch("1.2", "b")
	if result != 1_200_000_000 {
		t.Errorf("Expected 1200000000 but got %v", result)
	}
}

func TestRoundToNearestFive(t *testing.T) {
	result := RoundToNearest(92.3, 5)
	if result != 90 {
		t.Errorf("Expected 90 but got %v", result)
	}
}

func TestClampBounds(t *testing.T) {
	if result := Clamp(120, 0, 100); result != 100 {
		t.Errorf("Expected 100 but got %v", result)
	}
	if result := Clamp(-3, 0, 100); result != 0 {
		t.Errorf("Expected 0 but got %v", result)
	}
	if result := Clamp(42, 0, 100); result != 42 {
		t.Errorf("Expected 42 but got %v", result)
	}
}

func TestFormatMoneyCompact(t *testing.T) {
	if result := FormatMoney(6_500_000); result != "$6.5M" {
		t.Errorf("Expected $6.5M but got %v", result)
	}
	if result := FormatMoney(500_000); result != "$500K" {
		t.Errorf("Expected $500K but got %v", result)
	}
	if result := FormatMoney(-48_000); result != "-$48K" {
		t.Errorf("Expected -$48K but got %v", result)
	}
	if result := FormatMoney(950); result != "$950" {
		t.Errorf("Expected $950 but got %v", result)
	}
}

func TestFormatPercentTrimsZeros(t *testing.T) {
	if result := FormatPercent(6.5); result != "6.5%" {
		t.Errorf("Expected 6.5%% but got %v", result)
	}
	if result := FormatPercent(70); result != "70%" {
		t.Errorf("Expected 70%% but got %v", result)
	}
}
