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

// Package fstimes stamps filesystem timestamps so that a file's times,
// read at the project's fixed civil zone, show the given capture time.
package fstimes

import (
	"errors"
	"time"

	"github.com/phototimefix/phototimefix/phototime"
)

// Set applies t to the file at path: access and modification times
// everywhere, plus the creation time on platforms that record one.
func Set(path string, t phototime.Time) error {
	if t.IsZero() {
		return errors.New("no time to apply")
	}
	return setFileTimes(path, instant(t))
}

// instant converts the civil time to the UTC instant the platform APIs
// expect.
func instant(t phototime.Time) time.Time {
	sec, nsec := t.UnixUTC()
	return time.Unix(sec, nsec).UTC()
}
