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

// Package exifmeta reads and writes the three EXIF capture-time tags
// (DateTimeOriginal, DateTimeDigitized, DateTime) of image files. Tag
// values are civil time at the project's fixed zone and pass through
// unchanged; no timezone conversion happens here.
package exifmeta

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	heicexif "github.com/dsoprea/go-heic-exif-extractor/v2"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
	tiffstructure "github.com/dsoprea/go-tiff-image-structure/v2"
	riimage "github.com/dsoprea/go-utility/v2/image"
	"go.uber.org/zap"

	"github.com/phototimefix/phototimefix/phototime"
)

// maxInMemory caps the whole-file buffering fallback.
const maxInMemory = 100 << 20

var (
	ifdMapping *exifcommon.IfdMapping
	tagIndex   = exif.NewTagIndex()

	readFailOnce    sync.Once
	writeFormatOnce sync.Once
)

func init() {
	ifdMapping = exifcommon.NewIfdMapping()
	_ = exifcommon.LoadStandardIfds(ifdMapping)
}

// Tags holds the raw string values of the three capture-time tags in
// priority order. Absent tags are empty strings.
type Tags struct {
	Original  string // DateTimeOriginal
	Digitized string // DateTimeDigitized
	Image     string // DateTime
}

// Earliest returns the lexicographically smallest non-empty tag value,
// which for the library-native stamp form is the earliest time.
func (g Tags) Earliest() string {
	smallest := ""
	for _, v := range []string{g.Original, g.Digitized, g.Image} {
		if v == "" {
			continue
		}
		if smallest == "" || v < smallest {
			smallest = v
		}
	}
	return smallest
}

// Read returns the earliest capture time recorded in the metadata of the
// image at path. Absent tags, unreadable files, and unparseable tag
// values all report false.
func Read(path string) (phototime.Time, bool) {
	tags, err := ReadTags(path)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			phototime.Log.Debug("no exif data", zap.String("file", path))
		} else {
			warnOnce(&readFailOnce, "reading image metadata failed",
				zap.String("file", path), zap.Error(err))
		}
		return phototime.Time{}, false
	}
	earliest := tags.Earliest()
	if earliest == "" {
		return phototime.Time{}, false
	}
	tm, ok := phototime.ParseBoundary(earliest)
	if !ok {
		phototime.Log.Debug("unparseable capture time tag",
			zap.String("file", path), zap.String("value", earliest))
		return phototime.Time{}, false
	}
	return tm, true
}

// ReadTags extracts the raw values of the three capture-time tags. JPEG
// and TIFF files are decoded by streaming first; all formats fall back
// to a structural parse of a buffered copy and finally to a brute-force
// scan for an EXIF blob anywhere in the file.
func ReadTags(path string) (Tags, error) {
	ext := normalizedExt(path)

	switch ext {
	case "jpg", "jpeg", "tiff":
		if tags, err := streamTags(path); err == nil {
			return tags, nil
		}
	}

	raw, err := rawCaptureExif(path, ext)
	if err != nil {
		return Tags{}, err
	}
	return tagsFromRaw(raw)
}

// rawCaptureExif locates the raw EXIF blob of the image at path. The
// buffered retry hides path-encoding and seek quirks from the structural
// parsers; the final rung scans the buffer for an EXIF signature.
func rawCaptureExif(path, ext string) ([]byte, error) {
	parser := mediaParser(ext)
	var buf []byte

	if parser != nil {
		if raw, err := parseOpenFile(parser, path); err == nil {
			return raw, nil
		}

		buf, _, _ = readCapped(path)
		if buf != nil {
			if raw, err := parseBuffer(parser, buf); err == nil {
				return raw, nil
			}
		}
	}

	if buf == nil {
		var err error
		buf, _, err = readCapped(path)
		if err != nil {
			return nil, fmt.Errorf("buffering image: %w", err)
		}
	}
	return exif.SearchAndExtractExifWithReader(bytes.NewReader(buf))
}

func parseOpenFile(parser riimage.MediaParser, path string) (raw []byte, err error) {
	defer recoverParsePanic(&err)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	mc, err := parser.Parse(f, int(fi.Size()))
	if err != nil {
		return nil, err
	}
	_, raw, err = mc.Exif()
	return raw, err
}

func parseBuffer(parser riimage.MediaParser, data []byte) (raw []byte, err error) {
	defer recoverParsePanic(&err)

	mc, err := parser.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	_, raw, err = mc.Exif()
	return raw, err
}

// tagsFromRaw flattens the EXIF blob and keeps the first value of each
// capture-time tag outside the thumbnail IFD.
func tagsFromRaw(raw []byte) (tags Tags, err error) {
	defer recoverParsePanic(&err)

	entries, _, err := exif.GetFlatExifData(raw, &exif.ScanOptions{})
	if err != nil {
		return Tags{}, fmt.Errorf("flattening exif entries: %w", err)
	}
	for _, entry := range entries {
		if entry.IfdPath == exif.ThumbnailFqIfdPath {
			continue
		}
		value := strings.Trim(strings.SplitN(entry.FormattedFirst, "\x00", 2)[0], " ")
		if value == "" {
			continue
		}
		switch entry.TagName {
		case "DateTimeOriginal":
			if tags.Original == "" {
				tags.Original = value
			}
		case "DateTimeDigitized":
			if tags.Digitized == "" {
				tags.Digitized = value
			}
		case "DateTime":
			if tags.Image == "" {
				tags.Image = value
			}
		}
	}
	return tags, nil
}

func mediaParser(ext string) riimage.MediaParser {
	switch ext {
	case "jpg", "jpeg":
		return jpegstructure.NewJpegMediaParser()
	case "png":
		return pngstructure.NewPngMediaParser()
	case "tiff":
		return tiffstructure.NewTiffMediaParser()
	case "heic":
		return heicexif.NewHeicExifMediaParser()
	default:
		return nil
	}
}

// recoverParsePanic converts the structure libraries' internal panics on
// malformed input into ordinary errors.
func recoverParsePanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("image parser panicked: %v", r)
	}
}

func readCapped(path string) ([]byte, fs.FileMode, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if fi.Size() > maxInMemory {
		return nil, 0, fmt.Errorf("file too large to buffer (%d bytes)", fi.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, fi.Mode().Perm(), nil
}

func normalizedExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// warnOnce logs the first occurrence per run at WARN and later ones at
// DEBUG.
func warnOnce(once *sync.Once, msg string, fields ...zap.Field) {
	warned := false
	once.Do(func() {
		phototime.Log.Warn(msg, fields...)
		warned = true
	})
	if !warned {
		phototime.Log.Debug(msg, fields...)
	}
}
