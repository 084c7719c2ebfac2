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

// Scenario labels which row of the resolution table decided a file's
// target time. It is diagnostic: logged and reported, never persisted.
type Scenario int

const (
	NoTime Scenario = iota
	NameOnly
	ExifOnly
	ExifTooOldUseName
	SameDayNameDateOnlyUseExif
	SameDayExifDateOnlyUseName
	SameDayExifMidnightUseName
	SameDayNameMidnightUseExif
	SameDayBothFullUseMorePrecise
	BothUseEarliest
)

var scenarioNames = [...]string{
	"NoTime",
	"NameOnly",
	"ExifOnly",
	"ExifTooOldUseName",
	"SameDayNameDateOnlyUseExif",
	"SameDayExifDateOnlyUseName",
	"SameDayExifMidnightUseName",
	"SameDayNameMidnightUseExif",
	"SameDayBothFullUseMorePrecise",
	"BothUseEarliest",
}

func (s Scenario) String() string {
	if s < 0 || int(s) >= len(scenarioNames) {
		return "Unknown"
	}
	return scenarioNames[s]
}

// Resolve reduces the filename-derived time and the metadata-derived time
// to a single target time. Zero inputs mean "absent". The function is
// pure: no I/O, no clock, no randomness.
//
// The decision rows run top to bottom and the first match wins:
//
//	both absent                   -> none, NoTime
//	only one present              -> it, NameOnly / ExifOnly
//	exif dated before 2010-01-01  -> name, ExifTooOldUseName
//	same day, one side date-only  -> the timed side
//	same day, one side midnight   -> the other side
//	same day, equal to the minute -> the greater seconds component
//	otherwise                     -> the earlier of the two
//
// The 2010 cutoff catches cameras whose clock was never set and sits at
// its factory epoch. The midnight rows exist because several tools zero
// the clock when only the date is known. The equal-to-the-minute row
// keeps the side with the finer subsecond value.
func Resolve(nameTime, exifTime Time) (Time, Scenario) {
	switch {
	case nameTime.IsZero() && exifTime.IsZero():
		return Time{}, NoTime
	case exifTime.IsZero():
		return nameTime, NameOnly
	case nameTime.IsZero():
		return exifTime, ExifOnly
	}

	// Date-only comparison on the exif side; its time of day is noise
	// when the whole date is implausible.
	if exifTime.DateBefore(2010, 1, 1) {
		return nameTime, ExifTooOldUseName
	}

	if nameTime.SameDate(exifTime) {
		switch {
		case !nameTime.Timed() && exifTime.Timed():
			return exifTime, SameDayNameDateOnlyUseExif
		case !exifTime.Timed() && nameTime.Timed():
			return nameTime, SameDayExifDateOnlyUseName
		case exifTime.IsMidnight():
			return nameTime, SameDayExifMidnightUseName
		case nameTime.IsMidnight():
			return exifTime, SameDayNameMidnightUseExif
		case nameTime.Timed() && exifTime.Timed() &&
			nameTime.Hour == exifTime.Hour && nameTime.Minute == exifTime.Minute:
			if exifTime.Before(nameTime) {
				return nameTime, SameDayBothFullUseMorePrecise
			}
			return exifTime, SameDayBothFullUseMorePrecise
		}
	}

	if exifTime.Before(nameTime) {
		return exifTime, BothUseEarliest
	}
	return nameTime, BothUseEarliest
}
