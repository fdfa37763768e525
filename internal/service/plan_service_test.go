package service

import (
	"testing"
	"time"
)

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"mid month",
			time.Date(2025, time.March, 15, 13, 45, 30, 0, loc),
			time.Date(2025, time.March, 1, 0, 0, 0, 0, loc),
		},
		{
			"first of month",
			time.Date(2025, time.June, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.June, 1, 0, 0, 0, 0, loc),
		},
		{
			"last instant of month",
			time.Date(2025, time.January, 31, 23, 59, 59, 0, loc),
			time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
		},
		{
			"december",
			time.Date(2024, time.December, 25, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := monthStart(tc.in); !got.Equal(tc.want) {
				t.Errorf("monthStart(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMonthStartKeepsLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2025, time.March, 15, 1, 0, 0, 0, loc)
	if got := monthStart(in); got.Location() != loc {
		t.Errorf("monthStart changed location: got %v, want %v", got.Location(), loc)
	}
}
