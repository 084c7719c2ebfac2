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
	"bytes"
	"fmt"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
	"go.uber.org/zap"

	"github.com/phototimefix/phototimefix/phototime"
)

// Write serializes t in the library-native stamp form and overwrites all
// three capture-time tags of the image at path, inserting any that are
// absent. Existing unrelated tags are preserved. It reports whether the
// write succeeded; only JPEG and PNG containers can be rewritten.
func Write(path string, t phototime.Time) bool {
	if t.IsZero() {
		return false
	}
	stamp := t.MetadataStamp()

	ext := normalizedExt(path)
	switch ext {
	case "jpg", "jpeg", "png":
	default:
		warnOnce(&writeFormatOnce, "image format does not support metadata writes",
			zap.String("file", path), zap.String("extension", ext))
		return false
	}

	data, perm, err := readCapped(path)
	if err != nil {
		phototime.Log.Warn("cannot buffer image for metadata write",
			zap.String("file", path), zap.Error(err))
		return false
	}

	var out []byte
	if ext == "png" {
		out, err = rewritePNG(data, stamp)
	} else {
		out, err = rewriteJPEG(data, stamp)
	}
	if err != nil {
		phototime.Log.Warn("metadata write failed",
			zap.String("file", path), zap.Error(err))
		return false
	}

	if err := os.WriteFile(path, out, perm); err != nil {
		phototime.Log.Warn("replacing image with updated metadata failed",
			zap.String("file", path), zap.Error(err))
		return false
	}
	return true
}

func rewriteJPEG(data []byte, stamp string) (out []byte, err error) {
	defer recoverParsePanic(&err)

	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing jpeg: %w", err)
	}
	sl := mc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		rootIb = newRootBuilder()
	}
	if err := setCaptureTags(rootIb, stamp); err != nil {
		return nil, err
	}
	if err := sl.SetExif(rootIb); err != nil {
		return nil, fmt.Errorf("attaching exif segment: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := sl.Write(buf); err != nil {
		return nil, fmt.Errorf("serializing jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func rewritePNG(data []byte, stamp string) (out []byte, err error) {
	defer recoverParsePanic(&err)

	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing png: %w", err)
	}
	cs := mc.(*pngstructure.ChunkSlice)

	// A PNG without an eXIf chunk has no existing chain to build on.
	rootIb, err := cs.ConstructExifBuilder()
	if err != nil {
		rootIb = newRootBuilder()
	}
	if err := setCaptureTags(rootIb, stamp); err != nil {
		return nil, err
	}
	if err := cs.SetExif(rootIb); err != nil {
		return nil, fmt.Errorf("attaching exif chunk: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := cs.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("serializing png: %w", err)
	}
	return buf.Bytes(), nil
}

func newRootBuilder() *exif.IfdBuilder {
	return exif.NewIfdBuilder(ifdMapping, tagIndex,
		exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
}

// setCaptureTags writes DateTime into the root IFD and the two
// originals into the exif child IFD, creating either as needed.
func setCaptureTags(rootIb *exif.IfdBuilder, stamp string) error {
	ifd0, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return fmt.Errorf("locating root ifd: %w", err)
	}
	if err := ifd0.SetStandardWithName("DateTime", stamp); err != nil {
		return fmt.Errorf("setting DateTime: %w", err)
	}

	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return fmt.Errorf("locating exif ifd: %w", err)
	}
	if err := exifIb.SetStandardWithName("DateTimeOriginal", stamp); err != nil {
		return fmt.Errorf("setting DateTimeOriginal: %w", err)
	}
	if err := exifIb.SetStandardWithName("DateTimeDigitized", stamp); err != nil {
		return fmt.Errorf("setting DateTimeDigitized: %w", err)
	}
	return nil
}
