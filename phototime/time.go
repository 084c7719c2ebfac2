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

// Package phototime models the civil capture time of a photo at a fixed
// UTC+8 offset, parses and formats the textual shapes such times take at
// the boundaries (filenames, EXIF tags, logs), and resolves two competing
// time sources into a single target time.
//
// All reasoning happens on the broken-down Time value; strings exist only
// at the edges. The host timezone is never consulted: epoch conversions
// shift integer seconds by the fixed offset and break them down with
// explicit Gregorian arithmetic, so results are identical on any machine.
package phototime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Precision states how much of a Time is known. The zero value marks the
// absence of a time altogether, so a zero Time is unambiguous.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionDate
	PrecisionSeconds
	PrecisionMillis
)

// Time is a civil clock reading at UTC+8. Fields beyond the declared
// precision are zero and carry no meaning. Construct values through the
// New* functions or the parsers so that the Gregorian validity invariant
// holds; a Time that escapes construction always denotes a real calendar
// date and wall-clock time.
type Time struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Millis               int
	Precision            Precision
}

// NewDate returns a date-only Time, or false if the fields do not form a
// real Gregorian date.
func NewDate(year, month, day int) (Time, bool) {
	if !validDate(year, month, day) {
		return Time{}, false
	}
	return Time{Year: year, Month: month, Day: day, Precision: PrecisionDate}, true
}

// New returns a seconds-precision Time, or false on invalid fields.
func New(year, month, day, hour, minute, second int) (Time, bool) {
	if !validDate(year, month, day) || !validTime(hour, minute, second) {
		return Time{}, false
	}
	return Time{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second,
		Precision: PrecisionSeconds,
	}, true
}

// NewMillis returns a millisecond-precision Time, or false on invalid fields.
func NewMillis(year, month, day, hour, minute, second, millis int) (Time, bool) {
	if millis < 0 || millis > 999 {
		return Time{}, false
	}
	t, ok := New(year, month, day, hour, minute, second)
	if !ok {
		return Time{}, false
	}
	t.Millis = millis
	t.Precision = PrecisionMillis
	return t, true
}

// IsZero reports whether t carries no time at all.
func (t Time) IsZero() bool { return t.Precision == PrecisionNone }

// Timed reports whether t has a known time of day.
func (t Time) Timed() bool { return t.Precision >= PrecisionSeconds }

// IsMidnight reports whether t's time of day reads exactly 00:00:00.
// A date-only value is not midnight; its time of day is unknown.
func (t Time) IsMidnight() bool {
	return t.Timed() && t.Hour == 0 && t.Minute == 0 && t.Second == 0 && t.Millis == 0
}

// SameDate reports whether t and u fall on the same calendar date.
func (t Time) SameDate(u Time) bool {
	return t.Year == u.Year && t.Month == u.Month && t.Day == u.Day
}

// DateBefore reports whether t's calendar date precedes the given one.
// The time of day is deliberately ignored.
func (t Time) DateBefore(year, month, day int) bool {
	if t.Year != year {
		return t.Year < year
	}
	if t.Month != month {
		return t.Month < month
	}
	return t.Day < day
}

// Before orders two non-zero Times. Dates order first; on a shared date a
// date-only value sorts before any timed value, and timed values compare
// by wall clock with a missing millisecond field sorting before an
// explicit one.
func (t Time) Before(u Time) bool {
	if !t.SameDate(u) {
		return t.DateBefore(u.Year, u.Month, u.Day)
	}
	if t.Timed() != u.Timed() {
		return !t.Timed()
	}
	if !t.Timed() {
		return false
	}
	if t.Hour != u.Hour {
		return t.Hour < u.Hour
	}
	if t.Minute != u.Minute {
		return t.Minute < u.Minute
	}
	if t.Second != u.Second {
		return t.Second < u.Second
	}
	return t.msRank() < u.msRank()
}

// msRank totally orders the millisecond field so that a value without one
// sorts before the same wall clock with an explicit ".000".
func (t Time) msRank() int {
	if t.Precision == PrecisionMillis {
		return t.Millis
	}
	return -1
}

// Supplement fills a date-only value with the time of day of now and
// promotes it to seconds precision. Values that already have a time of
// day pass through unchanged.
func (t Time) Supplement(now Time) Time {
	if t.Precision != PrecisionDate {
		return t
	}
	t.Hour, t.Minute, t.Second = now.Hour, now.Minute, now.Second
	t.Precision = PrecisionSeconds
	return t
}

// Now is the current civil time at UTC+8, at seconds precision. It is
// derived from the UTC clock through the same epoch arithmetic as every
// other conversion in this package.
func Now() Time {
	t, _ := FromUnixSeconds(time.Now().Unix())
	return t
}

// String renders t in its dash boundary shape at the value's precision:
// "2006-01-02", "2006-01-02 15:04:05" or "2006-01-02 15:04:05.000".
// The zero Time renders as "none".
func (t Time) String() string {
	switch t.Precision {
	case PrecisionDate:
		return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
	case PrecisionSeconds:
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
			t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
	case PrecisionMillis:
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
			t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millis)
	default:
		return "none"
	}
}

// FilenameStamp renders t in the canonical filename shape,
// "20060102_150405", with a "_000" millisecond suffix at millisecond
// precision. Date-only values must be supplemented before formatting a
// filename; their stamp would read "00000000"-style zeros for the clock.
func (t Time) FilenameStamp() string {
	s := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
	if t.Precision == PrecisionMillis {
		s += fmt.Sprintf("_%03d", t.Millis)
	}
	return s
}

// MetadataStamp renders t in the EXIF tag shape, "2006:01:02 15:04:05".
// Milliseconds do not fit the tag shape and are dropped.
func (t Time) MetadataStamp() string {
	return fmt.Sprintf("%04d:%02d:%02d %02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// The boundary shapes recognized by ParseBoundary, tried in order. The
// millisecond shape precedes the seconds shape so a fractional part is
// never silently dropped.
var boundaryShapes = []struct {
	re        *regexp.Regexp
	precision Precision
}{
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2}):(\d{2})\.(\d{3})Z?$`), PrecisionMillis},
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2}):(\d{2})Z?$`), PrecisionSeconds},
	{regexp.MustCompile(`^(\d{4}):(\d{2}):(\d{2}) (\d{2}):(\d{2}):(\d{2})$`), PrecisionSeconds},
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), PrecisionDate},
}

// ParseBoundary parses one of the boundary string shapes: date-only,
// seconds in dash or T form (a trailing "Z" is tolerated), milliseconds,
// or the EXIF colon form. Surrounding space is trimmed first. Anything
// else, including out-of-range components, yields false.
func ParseBoundary(s string) (Time, bool) {
	s = strings.TrimSpace(s)
	for _, shape := range boundaryShapes {
		m := shape.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n := make([]int, len(m)-1)
		for i, f := range m[1:] {
			n[i], _ = strconv.Atoi(f)
		}
		switch shape.precision {
		case PrecisionDate:
			return NewDate(n[0], n[1], n[2])
		case PrecisionSeconds:
			return New(n[0], n[1], n[2], n[3], n[4], n[5])
		case PrecisionMillis:
			return NewMillis(n[0], n[1], n[2], n[3], n[4], n[5], n[6])
		}
	}
	return Time{}, false
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func leapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func daysInMonth(y, m int) int {
	if m == 2 && leapYear(y) {
		return 29
	}
	return monthDays[m]
}

func validDate(y, m, d int) bool {
	if y < 1 || m < 1 || m > 12 || d < 1 {
		return false
	}
	return d <= daysInMonth(y, m)
}

func validTime(h, m, s int) bool {
	return h >= 0 && h < 24 && m >= 0 && m < 60 && s >= 0 && s < 60
}
