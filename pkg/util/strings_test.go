package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 1); got != 42 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestParseFloatDefault(t *testing.T) {
	if got := ParseFloatDefault(" 0.018 ", 1); got != 0.018 {
		t.Fatalf("unexpected %v", got)
	}
	if got := ParseFloatDefault("abc", 0.5); got != 0.5 {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" NASDAQ, ,nyse,")
	if len(got) != 2 || got[0] != "NASDAQ" || got[1] != "nyse" {
		t.Fatalf("unexpected %v", got)
	}
	if SplitCSV("  ") != nil {
		t.Fatalf("expected nil")
	}
}
