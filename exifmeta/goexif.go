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

package exifmeta

import (
	"fmt"
	"os"
	"strings"

	"github.com/cozy/goexif2/exif"
	"github.com/cozy/goexif2/mknote"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// streamTags decodes the EXIF block from an open file handle without
// buffering the whole image.
func streamTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil && exif.IsCriticalError(err) {
		return Tags{}, fmt.Errorf("decoding exif from file: %w", err)
	}
	return Tags{
		Original:  tagString(ex, exif.DateTimeOriginal),
		Digitized: tagString(ex, exif.DateTimeDigitized),
		Image:     tagString(ex, exif.DateTime),
	}, nil
}

func tagString(ex *exif.Exif, name exif.FieldName) string {
	tag, err := ex.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.Trim(s, "\x00 ")
}
