package utils

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{50000, "USD", "$50,000"},
		{1234.5, "usd", "$1,235"},
		{0, "USD", "$0"},
		{999.49, "", "$999"},
		{75000, "NOPE", "$75,000"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount, tt.code); got != tt.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestIsKnownCurrency(t *testing.T) {
	if !IsKnownCurrency("eur") {
		t.Error("expected EUR to be known")
	}
	if IsKnownCurrency("XYZW") {
		t.Error("expected XYZW to be unknown")
	}
}

func TestDateFormats(t *testing.T) {
	d := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatLongDate(d); got != "Thursday, March 5, 2026" {
		t.Errorf("FormatLongDate = %q", got)
	}
	if got := FormatShortDate(d); got != "Mar 5" {
		t.Errorf("FormatShortDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q", got)
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "day", "days"); got != "1 day" {
		t.Errorf("got %q", got)
	}
	if got := Pluralize(10, "day", "days"); got != "10 days" {
		t.Errorf("got %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("secret_abcdef123456"); got != "secr...3456" {
		t.Errorf("got %q", got)
	}
	if got := MaskSecret("short"); got != "*****" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("Schedule quarterly review call", 10); got != "Schedul..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	// 02:00 UTC on Mar 6 is still Mar 5 at UTC-5.
	got := StartOfDay(time.Date(2026, 3, 6, 2, 0, 0, 0, time.UTC), loc)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestLoadLocation(t *testing.T) {
	if loc, ok := LoadLocation(""); !ok || loc != time.Local {
		t.Error("empty name should select local zone")
	}
	if loc, ok := LoadLocation("Not/AZone"); ok || loc != time.UTC {
		t.Error("unknown zone should fall back to UTC")
	}
}
