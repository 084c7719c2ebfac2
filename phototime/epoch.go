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

// The fixed civil offset for every Time in this program. Filenames and
// EXIF tags are written by devices configured for Beijing time, so the
// offset is a project constant rather than a host setting.
const offsetSeconds = 8 * 60 * 60

const secondsPerDay = 24 * 60 * 60

// FromUnixSeconds converts an epoch in seconds to the civil time it reads
// at UTC+8, at seconds precision. False if the resulting date is not a
// real calendar date (practically unreachable for in-range epochs, but
// callers feeding untrusted digits rely on the check).
func FromUnixSeconds(sec int64) (Time, bool) {
	return fromEpoch(sec, 0, PrecisionSeconds)
}

// FromUnixMilli converts an epoch in milliseconds to the civil time it
// reads at UTC+8, at millisecond precision. The residual millisecond
// component is normalized into [0, 1000) so negative epochs borrow one
// second rather than carrying a negative remainder.
func FromUnixMilli(ms int64) (Time, bool) {
	sec, rem := ms/1000, ms%1000
	if rem < 0 {
		rem += 1000
		sec--
	}
	return fromEpoch(sec, int(rem), PrecisionMillis)
}

func fromEpoch(sec int64, millis int, p Precision) (Time, bool) {
	local := sec + offsetSeconds
	days := local / secondsPerDay
	rem := local % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}

	y, mo, d := civilFromDays(days)
	if !validDate(y, mo, d) {
		return Time{}, false
	}
	return Time{
		Year: y, Month: mo, Day: d,
		Hour:      int(rem / 3600),
		Minute:    int(rem % 3600 / 60),
		Second:    int(rem % 60),
		Millis:    millis,
		Precision: p,
	}, true
}

// civilFromDays breaks a count of days since 1970-01-01 down to a
// Gregorian date by walking whole years and then the month table.
func civilFromDays(days int64) (y, m, d int) {
	y = 1970
	for {
		n := int64(365)
		if leapYear(y) {
			n = 366
		}
		if days >= n {
			days -= n
			y++
			continue
		}
		if days < 0 {
			y--
			if leapYear(y) {
				days += 366
			} else {
				days += 365
			}
			continue
		}
		break
	}
	m = 1
	for days >= int64(daysInMonth(y, m)) {
		days -= int64(daysInMonth(y, m))
		m++
	}
	return y, m, int(days) + 1
}

// daysFromCivil is the inverse of civilFromDays.
func daysFromCivil(y, m, d int) int64 {
	var days int64
	for yy := 1970; yy < y; yy++ {
		if leapYear(yy) {
			days += 366
		} else {
			days += 365
		}
	}
	for yy := y; yy < 1970; yy++ {
		if leapYear(yy) {
			days -= 366
		} else {
			days -= 365
		}
	}
	for mm := 1; mm < m; mm++ {
		days += int64(daysInMonth(y, mm))
	}
	return days + int64(d) - 1
}

// UnixUTC returns the UTC instant t denotes: the civil reading minus the
// fixed offset, as seconds and nanoseconds since the epoch. The
// filesystem-time adapter hands this to the host API so that an on-disk
// readback at UTC+8 equals t.
func (t Time) UnixUTC() (sec, nsec int64) {
	sec = daysFromCivil(t.Year, t.Month, t.Day)*secondsPerDay +
		int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second) -
		offsetSeconds
	if t.Precision == PrecisionMillis {
		nsec = int64(t.Millis) * 1e6
	}
	return sec, nsec
}
