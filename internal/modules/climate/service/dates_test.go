package service

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParsePathDate_valid(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "20160101", want: "2016-01-01"},
		{in: "20170823", want: "2017-08-23"},
		{in: "20160229", want: "2016-02-29"},
		{in: "19991231", want: "1999-12-31"},
		{in: "00010101", want: "0001-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePathDate("startDate", tt.in)
			if err != nil {
				t.Fatalf("ParsePathDate(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePathDate(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePathDate_invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "letters", in: "abcdefgh"},
		{name: "month 13", in: "20161301"},
		{name: "month 00", in: "20160001"},
		{name: "day 00", in: "20160100"},
		{name: "feb 30", in: "20160230"},
		{name: "feb 29 non leap", in: "20170229"},
		{name: "too short", in: "2016011"},
		{name: "too long", in: "201601011"},
		{name: "iso dashes", in: "2016-01-01"},
		{name: "leading sign", in: "+2016010"},
		{name: "embedded space", in: "2016 101"},
		{name: "non ascii digit", in: "2016010١"},
		{name: "year zero", in: "00000101"},
		{name: "year zero leap day", in: "00000229"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePathDate("endDate", tt.in)
			if err == nil {
				t.Fatalf("ParsePathDate(%q) error = nil; want error", tt.in)
			}
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("errors.Is(err, ErrInvalidDateFormat) = false for %v", err)
			}
			var de *DateError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DateError", err)
			}
			if de.Param != "endDate" || de.Value != tt.in {
				t.Errorf("DateError = %+v; want Param=endDate Value=%q", de, tt.in)
			}
		})
	}
}

// Every day across a leap cycle round-trips; every day one past the end of
// its month fails.
func TestParsePathDate_exhaustiveCalendar(t *testing.T) {
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		in := d.Format(pathDateLayout)
		got, err := ParsePathDate("startDate", in)
		if err != nil {
			t.Fatalf("ParsePathDate(%q) error = %v", in, err)
		}
		if want := d.Format(storeDateLayout); got != want {
			t.Fatalf("ParsePathDate(%q) = %q; want %q", in, got, want)
		}
		if d.AddDate(0, 0, 1).Day() == 1 {
			bad := fmt.Sprintf("%s%02d", d.Format("200601"), d.Day()+1)
			if _, err := ParsePathDate("startDate", bad); err == nil {
				t.Fatalf("ParsePathDate(%q) error = nil; want error", bad)
			}
		}
	}
}

func TestDateError_message(t *testing.T) {
	err := &DateError{Param: "startDate", Value: "2016-1-1"}
	want := `invalid startDate "2016-1-1": expected YYYYMMDD`
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestYearBefore(t *testing.T) {
	got, err := yearBefore("2017-08-23")
	if err != nil {
		t.Fatalf("yearBefore error = %v", err)
	}
	if got != "2016-08-23" {
		t.Errorf("yearBefore = %q; want 2016-08-23", got)
	}
	if _, err := yearBefore("garbage"); err == nil {
		t.Error("yearBefore(garbage) error = nil; want error")
	}
}
