package syncer

import (
	"testing"
	"time"
)

func TestFormatAperture(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2.8, "f/2.8"},
		{2.79999, "f/2.8"},
		{8, "f/8"},
		{8.0, "f/8"},
		{1.4, "f/1.4"},
		{11, "f/11"},
	}
	for _, c := range cases {
		if got := FormatAperture(c.in); got != c.want {
			t.Errorf("FormatAperture(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatShutter(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.004, "1/250s"},
		{0.0005, "1/2000s"},
		{1.0 / 60.0, "1/60s"},
		{2, "2s"},
		{1, "1s"},
		{30, "30s"},
		{0, ""},
		{-1, ""},
	}
	for _, c := range cases {
		if got := FormatShutter(c.in); got != c.want {
			t.Errorf("FormatShutter(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatFocalLength(t *testing.T) {
	if got := FormatFocalLength(35.0); got != "35mm" {
		t.Errorf("FormatFocalLength(35.0) = %q, want %q", got, "35mm")
	}
	if got := FormatFocalLength(23.7); got != "24mm" {
		t.Errorf("FormatFocalLength(23.7) = %q, want %q", got, "24mm")
	}
}

func TestDeriveDateLabelFromTitle(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := DeriveDateLabel("Iceland - October 2023", nil, now)
	if got != "October 2023" {
		t.Errorf("got %q, want %q", got, "October 2023")
	}
}

func TestDeriveDateLabelSingleMonth(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	captures := []time.Time{
		time.Date(2023, time.October, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2023, time.October, 19, 10, 0, 0, 0, time.UTC),
	}
	got := DeriveDateLabel("Untagged", captures, now)
	if got != "October 2023" {
		t.Errorf("got %q, want %q", got, "October 2023")
	}
}

func TestDeriveDateLabelSameYearRange(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	captures := []time.Time{
		time.Date(2023, time.November, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2023, time.October, 3, 10, 0, 0, 0, time.UTC),
	}
	got := DeriveDateLabel("Untagged", captures, now)
	if got != "Oct - Nov 2023" {
		t.Errorf("got %q, want %q", got, "Oct - Nov 2023")
	}
}

func TestDeriveDateLabelCrossYearRange(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	captures := []time.Time{
		time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 28, 10, 0, 0, 0, time.UTC),
	}
	got := DeriveDateLabel("Untagged", captures, now)
	if got != "Dec 2023 - Jan 2024" {
		t.Errorf("got %q, want %q", got, "Dec 2023 - Jan 2024")
	}
}

func TestDeriveDateLabelFallsBackToNow(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := DeriveDateLabel("Untagged", nil, now)
	if got != "March 2026" {
		t.Errorf("got %q, want %q", got, "March 2026")
	}
}

func TestDeriveDateLabelIgnoresNonDateSuffix(t *testing.T) {
	// A " - " title whose tail is not "<Month> <year>" is not a label.
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := DeriveDateLabel("Behind the scenes - part two", nil, now)
	if got != "March 2026" {
		t.Errorf("got %q, want %q", got, "March 2026")
	}
}

func TestDeriveLocationFromTitle(t *testing.T) {
	got := DeriveLocation("Iceland - October 2023", []string{"Oslo, Norway"})
	if got != "Iceland" {
		t.Errorf("got %q, want %q", got, "Iceland")
	}
}

func TestDeriveLocationMostFrequent(t *testing.T) {
	places := []string{"Reykjavik, Iceland", "Vik, Iceland", "Reykjavik, Iceland"}
	got := DeriveLocation("Untagged", places)
	if got != "Reykjavik, Iceland" {
		t.Errorf("got %q, want %q", got, "Reykjavik, Iceland")
	}
}

func TestDeriveLocationTieBreaksFirstSeen(t *testing.T) {
	places := []string{"Vik, Iceland", "Reykjavik, Iceland"}
	got := DeriveLocation("Untagged", places)
	if got != "Vik, Iceland" {
		t.Errorf("got %q, want %q", got, "Vik, Iceland")
	}
}

func TestDeriveLocationUnknown(t *testing.T) {
	if got := DeriveLocation("Untagged", nil); got != "Unknown" {
		t.Errorf("got %q, want %q", got, "Unknown")
	}
	if got := DeriveLocation("Untagged", []string{"", ""}); got != "Unknown" {
		t.Errorf("got %q, want %q", got, "Unknown")
	}
}
