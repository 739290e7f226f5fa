package fetcher

import (
	"testing"
	"time"
)

func TestDate_Unix(t *testing.T) {
	tests := []struct {
		date Date
		want int64
	}{
		{NewDate(1970, time.January, 1), 0},
		{NewDate(1970, time.January, 2), 86400},
		{NewDate(2024, time.January, 19), 1705622400},
		{NewDate(2024, time.February, 29), 1709164800},
		{NewDate(1969, time.December, 31), -86400},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			if got := tt.date.Unix(); got != tt.want {
				t.Errorf("Unix() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDateOf_IgnoresLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2024, time.January, 19, 8, 30, 0, 0, tokyo)

	d := DateOf(ts)
	if d != NewDate(2024, time.January, 19) {
		t.Errorf("DateOf() = %v, want 2024-01-19", d)
	}
	if d.Unix() != 1705622400 {
		t.Errorf("Unix() = %d, want 1705622400", d.Unix())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-21")
	if err != nil {
		t.Fatalf("ParseDate() returned unexpected error: %v", err)
	}
	if d.String() != "2024-06-21" {
		t.Errorf("String() = %q, want 2024-06-21", d.String())
	}

	for _, bad := range []string{"", "2024-13-01", "21/06/2024", "2024-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error, got nil", bad)
		}
	}
}

func TestDate_IsZero(t *testing.T) {
	if !(Date{}).IsZero() {
		t.Error("zero Date should be zero")
	}
	if NewDate(2024, time.January, 1).IsZero() {
		t.Error("2024-01-01 should not be zero")
	}
}
