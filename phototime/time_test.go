/*
	Phototimefix
	Copyright (c) 2025 The Phototimefix Authors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package phototime

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

func TestParseBoundary(t *testing.T) {
	for i, tc := range []struct {
		input  string
		expect Time
		none   bool
	}{
		{
			input:  "2023-10-23",
			expect: Time{Year: 2023, Month: 10, Day: 23, Precision: PrecisionDate},
		},
		{
			input:  "2023-10-23 15:30:00",
			expect: Time{Year: 2023, Month: 10, Day: 23, Hour: 15, Minute: 30, Precision: PrecisionSeconds},
		},
		{
			input:  "2023-10-23T14:00:00",
			expect: Time{Year: 2023, Month: 10, Day: 23, Hour: 14, Precision: PrecisionSeconds},
		},
		{
			// Z is tolerated on input, never emitted
			input:  "2023-10-23T14:00:00Z",
			expect: Time{Year: 2023, Month: 10, Day: 23, Hour: 14, Precision: PrecisionSeconds},
		},
		{
			input: "2023-10-23 15:30:00.123",
			expect: Time{Year: 2023, Month: 10, Day: 23, Hour: 15, Minute: 30,
				Millis: 123, Precision: PrecisionMillis},
		},
		{
			input: "2019-09-12T23:19:55.980",
			expect: Time{Year: 2019, Month: 9, Day: 12, Hour: 23, Minute: 19, Second: 55,
				Millis: 980, Precision: PrecisionMillis},
		},
		{
			// EXIF tag shape
			input: "2016:03:31 20:23:34",
			expect: Time{Year: 2016, Month: 3, Day: 31, Hour: 20, Minute: 23, Second: 34,
				Precision: PrecisionSeconds},
		},
		{
			input: "  2023-10-23 15:30:00  ",
			expect: Time{Year: 2023, Month: 10, Day: 23, Hour: 15, Minute: 30,
				Precision: PrecisionSeconds},
		},
		{
			// leap day on a divisible-by-400 century
			input:  "2000-02-29",
			expect: Time{Year: 2000, Month: 2, Day: 29, Precision: PrecisionDate},
		},
		{input: "1900-02-29", none: true}, // century, not divisible by 400
		{input: "2023-02-29", none: true},
		{input: "2023-13-01", none: true},
		{input: "2023-10-00", none: true},
		{input: "2023-10-32", none: true},
		{input: "2023-10-23 24:00:00", none: true},
		{input: "2023-10-23 15:61:00", none: true},
		{input: "2023-10-23 15:30", none: true},   // missing :SS
		{input: "2023-10-23 15:30:00.12", none: true}, // milliseconds are three digits
		{input: "2023-10-23 15:30:00 extra", none: true},
		{input: "2023/10/23 15:30:00", none: true},
		{input: "20231023", none: true}, // filename shape is not a boundary shape
		{input: "", none: true},
		{input: "none", none: true},
	} {
		actual, ok := ParseBoundary(tc.input)
		if tc.none {
			if ok {
				t.Errorf("Test %d (%s): expected no parse but got %s", i, tc.input, actual)
			}
			continue
		}
		if !ok {
			t.Errorf("Test %d (%s): expected %s but got no parse", i, tc.input, tc.expect)
			continue
		}
		if actual != tc.expect {
			t.Errorf("Test %d (%s): expected %#v but got %#v", i, tc.input, tc.expect, actual)
		}
	}
}

func TestFormatting(t *testing.T) {
	for i, tc := range []struct {
		input    string
		str      string
		filename string
		metadata string
	}{
		{
			input:    "2023-10-23 15:30:00",
			str:      "2023-10-23 15:30:00",
			filename: "20231023_153000",
			metadata: "2023:10:23 15:30:00",
		},
		{
			input:    "2023-10-23T14:00:00",
			str:      "2023-10-23 14:00:00",
			filename: "20231023_140000",
			metadata: "2023:10:23 14:00:00",
		},
		{
			input:    "2019-09-12 23:19:55.980",
			str:      "2019-09-12 23:19:55.980",
			filename: "20190912_231955_980",
			metadata: "2019:09:12 23:19:55",
		},
		{
			input:    "2022-01-15",
			str:      "2022-01-15",
			filename: "20220115_000000",
			metadata: "2022:01:15 00:00:00",
		},
		{
			input:    "0987-01-02 03:04:05",
			str:      "0987-01-02 03:04:05",
			filename: "09870102_030405",
			metadata: "0987:01:02 03:04:05",
		},
	} {
		tm, ok := ParseBoundary(tc.input)
		if !ok {
			t.Fatalf("Test %d (%s): input did not parse", i, tc.input)
		}
		if s := tm.String(); s != tc.str {
			t.Errorf("Test %d (%s): String() expected %s but got %s", i, tc.input, tc.str, s)
		}
		if s := tm.FilenameStamp(); s != tc.filename {
			t.Errorf("Test %d (%s): FilenameStamp() expected %s but got %s", i, tc.input, tc.filename, s)
		}
		if s := tm.MetadataStamp(); s != tc.metadata {
			t.Errorf("Test %d (%s): MetadataStamp() expected %s but got %s", i, tc.input, tc.metadata, s)
		}
	}

	if s := (Time{}).String(); s != "none" {
		t.Errorf(`zero Time: expected String() == "none" but got %q`, s)
	}
}

func TestEpochConversion(t *testing.T) {
	for i, tc := range []struct {
		millis  int64
		seconds int64 // used when millis == 0
		expect  string
	}{
		{millis: 1568301595980, expect: "2019-09-12 23:19:55.980"},
		{millis: 1605199092110, expect: "2020-11-13 00:38:12.110"},
		{millis: 1719390504866, expect: "2024-06-26 16:28:24.866"},
		{millis: 1543624986659, expect: "2018-12-01 08:43:06.659"},
		{millis: 1620111487858, expect: "2021-05-04 14:58:07.858"},
		{seconds: 1568301595, expect: "2019-09-12 23:19:55"},
		{seconds: 1, expect: "1970-01-01 08:00:01"},
		// negative remainder must borrow a second, not go below zero
		{millis: -1, expect: "1970-01-01 07:59:59.999"},
		{seconds: -30000, expect: "1969-12-31 23:40:00"},
	} {
		var actual Time
		var ok bool
		if tc.millis != 0 {
			actual, ok = FromUnixMilli(tc.millis)
		} else {
			actual, ok = FromUnixSeconds(tc.seconds)
		}
		if !ok {
			t.Errorf("Test %d: expected %s but conversion failed", i, tc.expect)
			continue
		}
		if actual.String() != tc.expect {
			t.Errorf("Test %d: expected %s but got %s", i, tc.expect, actual)
		}
	}
}

func TestUnixUTCRoundTrip(t *testing.T) {
	// The adapter hands UnixUTC to the host clock APIs, so cross-check
	// the explicit Gregorian math against the standard library's view of
	// the same fixed offset.
	cst := time.FixedZone("CST", 8*60*60)
	for i, input := range []string{
		"2016-03-31 20:23:34",
		"2019-09-12 23:19:55.980",
		"1970-01-01 08:00:00",
		"2024-02-29 00:00:01",
		"2038-01-19 11:14:07",
	} {
		tm, ok := ParseBoundary(input)
		if !ok {
			t.Fatalf("Test %d (%s): input did not parse", i, input)
		}
		sec, nsec := tm.UnixUTC()
		want := time.Date(tm.Year, time.Month(tm.Month), tm.Day,
			tm.Hour, tm.Minute, tm.Second, int(nsec), cst)
		if got := time.Unix(sec, nsec).UTC(); !got.Equal(want) {
			t.Errorf("Test %d (%s): expected instant %s but got %s", i, input, want.UTC(), got)
		}
	}

	for i, epoch := range []int64{0, 1, 86399, 1568301595, 4102444800} {
		tm, ok := FromUnixSeconds(epoch)
		if !ok {
			t.Fatalf("Test %d: conversion failed for %d", i, epoch)
		}
		if sec, _ := tm.UnixUTC(); sec != epoch {
			t.Errorf("Test %d: epoch %d round-tripped to %d", i, epoch, sec)
		}
	}
}

func TestSupplement(t *testing.T) {
	now, _ := New(2024, 6, 1, 13, 14, 15)

	dateOnly, _ := NewDate(2022, 1, 15)
	got := dateOnly.Supplement(now)
	want, _ := New(2022, 1, 15, 13, 14, 15)
	if got != want {
		t.Errorf("date-only: expected %s but got %s", want, got)
	}

	timed, _ := New(2022, 1, 15, 8, 0, 0)
	if got := timed.Supplement(now); got != timed {
		t.Errorf("timed value must pass through unchanged, got %s", got)
	}
}

func TestBeforeOrdering(t *testing.T) {
	for i, tc := range []struct {
		a, b   string
		before bool
	}{
		{a: "2020-01-01 10:00:00", b: "2020-01-02 09:00:00", before: true},
		{a: "2020-01-02 09:00:00", b: "2020-01-01 10:00:00", before: false},
		{a: "2020-01-01 10:00:00", b: "2020-01-01 10:00:00", before: false},
		// a date-only value sorts before any timed value on the same day
		{a: "2024-11-12", b: "2024-11-12 00:00:00", before: true},
		{a: "2024-11-12 00:00:00", b: "2024-11-12", before: false},
		{a: "2024-11-12", b: "2024-11-12", before: false},
		// a missing millisecond field sorts before an explicit one
		{a: "2020-01-01 10:00:00", b: "2020-01-01 10:00:00.000", before: true},
		{a: "2020-01-01 10:00:00.000", b: "2020-01-01 10:00:00.001", before: true},
		{a: "2020-01-01 10:00:00.001", b: "2020-01-01 10:00:00", before: false},
	} {
		a, ok := ParseBoundary(tc.a)
		if !ok {
			t.Fatalf("Test %d: %s did not parse", i, tc.a)
		}
		b, ok := ParseBoundary(tc.b)
		if !ok {
			t.Fatalf("Test %d: %s did not parse", i, tc.b)
		}
		if got := a.Before(b); got != tc.before {
			t.Errorf("Test %d: Before(%s, %s) expected %t but got %t", i, tc.a, tc.b, tc.before, got)
		}
	}
}

func TestBoundaryRoundTrip(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 200; i++ {
		d := faker.DateRange(
			time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2035, time.December, 31, 23, 59, 59, 0, time.UTC))
		tm, ok := New(d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second())
		if !ok {
			t.Fatalf("Test %d: faked components did not validate: %v", i, d)
		}
		back, ok := ParseBoundary(tm.String())
		if !ok {
			t.Errorf("Test %d: %s did not parse back", i, tm)
			continue
		}
		if back != tm {
			t.Errorf("Test %d: expected %s to round-trip but got %s", i, tm, back)
		}
	}
}
