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

// Package selftest runs the built-in verification suites behind the
// --test flag. The fixed vectors cover the filename parser, the boundary
// string forms, the epoch conversions, and the full resolution table; a
// final suite round-trips randomized times through the stamp formats.
// Results print to stdout, one line per vector.
package selftest

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/phototimefix/phototimefix/phototime"
)

// Run executes every suite and returns the overall tallies. It touches
// neither the filesystem nor any image; everything it checks is pure.
func Run() (passed, failed int) {
	suites := []struct {
		name string
		run  func() (int, int)
	}{
		{"filename parse", filenameVectors},
		{"boundary forms", boundaryVectors},
		{"epoch conversion", epochVectors},
		{"target resolution", resolverVectors},
		{"stamp round trip", stampRoundTrip},
	}
	for _, suite := range suites {
		fmt.Printf("==== %s ====\n", suite.name)
		p, f := suite.run()
		fmt.Printf("%d passed, %d failed\n\n", p, f)
		passed += p
		failed += f
	}
	fmt.Printf("total: %d passed, %d failed\n", passed, failed)
	return passed, failed
}

func check(label, got, want string) bool {
	if got == want {
		fmt.Printf("ok   %-52s => %s\n", label, got)
		return true
	}
	fmt.Printf("FAIL %-52s => %s (want %s)\n", label, got, want)
	return false
}

func tally(ok bool, passed, failed *int) {
	if ok {
		*passed++
	} else {
		*failed++
	}
}

func filenameVectors() (passed, failed int) {
	cases := []struct{ name, want string }{
		{"20160331_202334.jpg", "2016-03-31 20:23:34"},
		{"IMG_20231111_193849.jpg", "2023-11-11 19:38:49"},
		{"VID_20210801_171003.jpg", "2021-08-01 17:10:03"},
		{"PANO_20231001_143241.jpg", "2023-10-01 14:32:41"},
		{"MTXX_PT20230623_190638417.jpg", "2023-06-23 19:06:38"},
		{"mmexport1568301595980.jpg", "2019-09-12 23:19:55.980"},
		{"mmexport1602999370599.jpg", "2020-10-18 13:36:10.599"},
		{"MEITU_20240807_123043882.jpg", "2024-08-07 12:30:43"},
		{"wx_camera_1719390504866.jpg", "2024-06-26 16:28:24.866"},
		{"1605199092110.jpeg", "2020-11-13 00:38:12.110"},
		{"20220115-wczt.jpg", "2022-01-15"},
		{"l00972450_1543624986659.jpg", "2018-12-01 08:43:06.659"},
		{"20220115.jpg", "2022-01-15"},
		{"mmexport1620111487858.jpg", "2021-05-04 14:58:07.858"},
		{"nonsense.txt", "none"},
		{"no_digits_here.png", "none"},
	}
	for _, c := range cases {
		tm, _ := phototime.ParseFilename(c.name)
		tally(check(c.name, tm.String(), c.want), &passed, &failed)
	}
	return passed, failed
}

func boundaryVectors() (passed, failed int) {
	parse := []struct{ in, want string }{
		{"2023-10-23 15:30:00", "2023-10-23 15:30:00"},
		{"2023-10-23T14:00:00", "2023-10-23 14:00:00"},
		{"2023:10:23 14:00:00", "2023-10-23 14:00:00"},
		{"2016-03-31 20:23:34.500", "2016-03-31 20:23:34.500"},
		{"2022-01-15", "2022-01-15"},
		{"2021-02-29 10:00:00", "none"},
		{"2023-10-23 25:00:00", "none"},
		{"banana", "none"},
	}
	for _, c := range parse {
		tm, _ := phototime.ParseBoundary(c.in)
		tally(check("parse "+c.in, tm.String(), c.want), &passed, &failed)
	}

	stamp := []struct{ in, want string }{
		{"2023-10-23 15:30:00", "2023:10:23 15:30:00"},
		{"2023-10-23T14:00:00", "2023:10:23 14:00:00"},
		{"2016-03-31 20:23:34", "2016:03:31 20:23:34"},
		{"2021-12-28 00:00:00", "2021:12:28 00:00:00"},
		{"2024-08-07 12:30:43", "2024:08:07 12:30:43"},
	}
	for _, c := range stamp {
		tm, _ := phototime.ParseBoundary(c.in)
		tally(check("stamp "+c.in, tm.MetadataStamp(), c.want), &passed, &failed)
	}
	return passed, failed
}

func epochVectors() (passed, failed int) {
	secs := []struct {
		sec  int64
		want string
	}{
		{0, "1970-01-01 08:00:00"},
		{1568301595, "2019-09-12 23:19:55"},
		{1605199092, "2020-11-13 00:38:12"}, // UTC date rolls forward at +8
		{1582934400, "2020-02-29 08:00:00"}, // leap day
	}
	for _, c := range secs {
		tm, _ := phototime.FromUnixSeconds(c.sec)
		tally(check(fmt.Sprintf("seconds %d", c.sec), tm.String(), c.want), &passed, &failed)
	}

	millis := []struct {
		ms   int64
		want string
	}{
		{1568301595980, "2019-09-12 23:19:55.980"},
		{1719390504866, "2024-06-26 16:28:24.866"},
	}
	for _, c := range millis {
		tm, _ := phototime.FromUnixMilli(c.ms)
		tally(check(fmt.Sprintf("millis %d", c.ms), tm.String(), c.want), &passed, &failed)
	}
	return passed, failed
}

func resolverVectors() (passed, failed int) {
	cases := []struct {
		name, exif string
		want       string
		scenario   phototime.Scenario
	}{
		{"", "", "none", phototime.NoTime},
		{"2023-10-23 15:30:00", "", "2023-10-23 15:30:00", phototime.NameOnly},
		{"", "2023-10-23T14:00:00", "2023-10-23 14:00:00", phototime.ExifOnly},
		{"2023-10-23 15:30:00", "2023-10-23T14:00:00", "2023-10-23 14:00:00", phototime.BothUseEarliest},
		{"2023-10-23 10:00:00", "2023-10-23T15:00:00", "2023-10-23 10:00:00", phototime.BothUseEarliest},
		{"2023-10-23 12:00:00", "2009-06-01T12:00:00", "2023-10-23 12:00:00", phototime.ExifTooOldUseName},
		{"2023-10-23 15:30:00", "2023-10-23T00:00:00", "2023-10-23 15:30:00", phototime.SameDayExifMidnightUseName},
		{"2023-10-23 00:00:00", "2023-10-23T14:30:00", "2023-10-23 14:30:00", phototime.SameDayNameMidnightUseExif},
		{"2023-10-23 14:30:00", "2023-10-23T14:30:00", "2023-10-23 14:30:00", phototime.SameDayBothFullUseMorePrecise},
		{"2023-10-23 14:30:01", "2023-10-23T14:30:00", "2023-10-23 14:30:01", phototime.SameDayBothFullUseMorePrecise},
		{"2023-10-23", "2023-10-23T14:30:00", "2023-10-23 14:30:00", phototime.SameDayNameDateOnlyUseExif},
		{"2023-10-23 14:30:00", "2023-10-23", "2023-10-23 14:30:00", phototime.SameDayExifDateOnlyUseName},
	}
	for _, c := range cases {
		nameTime, _ := phototime.ParseBoundary(c.name)
		exifTime, _ := phototime.ParseBoundary(c.exif)
		tm, scenario := phototime.Resolve(nameTime, exifTime)
		label := fmt.Sprintf("name=%q exif=%q", c.name, c.exif)
		got := fmt.Sprintf("%s [%s]", tm, scenario)
		want := fmt.Sprintf("%s [%s]", c.want, c.scenario)
		tally(check(label, got, want), &passed, &failed)
	}
	return passed, failed
}

// stampRoundTrip feeds randomized times through every format this program
// emits and back through the parsers. Only failures print per-vector.
func stampRoundTrip() (passed, failed int) {
	faker := gofakeit.New(29)
	lo := time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2069, 12, 31, 23, 59, 59, 0, time.UTC)

	for i := 0; i < 200; i++ {
		tm, ok := phototime.FromUnixMilli(faker.DateRange(lo, hi).UnixMilli())
		if !ok {
			fmt.Printf("FAIL round trip %d: epoch conversion rejected\n", i)
			failed++
			continue
		}
		reparsed, ok := phototime.ParseBoundary(tm.String())
		if !ok || reparsed != tm {
			fmt.Printf("FAIL round trip %d: %s reparsed as %s\n", i, tm, reparsed)
			failed++
			continue
		}
		sec, _ := tm.UnixUTC()
		back, _ := phototime.FromUnixSeconds(sec)
		if !back.SameDate(tm) || back.Hour != tm.Hour || back.Minute != tm.Minute || back.Second != tm.Second {
			fmt.Printf("FAIL round trip %d: %s through the epoch became %s\n", i, tm, back)
			failed++
			continue
		}
		named, ok := phototime.ParseFilename("IMG_" + tm.FilenameStamp() + ".jpg")
		if !ok || !named.SameDate(tm) || named.Hour != tm.Hour || named.Minute != tm.Minute || named.Second != tm.Second {
			fmt.Printf("FAIL round trip %d: stamp %s parsed as %s\n", i, tm.FilenameStamp(), named)
			failed++
			continue
		}
		passed++
	}
	if failed == 0 {
		fmt.Printf("ok   %d randomized stamps round-tripped\n", passed)
	}
	return passed, failed
}
