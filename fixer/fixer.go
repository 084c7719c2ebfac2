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

// Package fixer normalizes the capture time of photo files. For each
// file it reconciles the time encoded in the filename with the time
// recorded in the image metadata, renames the file to the canonical
// IMG_ form, and stamps the winning time into both the metadata tags
// and the filesystem timestamps.
package fixer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/phototimefix/phototimefix/exifmeta"
	"github.com/phototimefix/phototimefix/fstimes"
	"github.com/phototimefix/phototimefix/phototime"
)

// Status classifies one file's outcome in the run report.
type Status int

const (
	// StatusSuccess means the file was renamed and nothing failed.
	StatusSuccess Status = iota
	// StatusUnchanged means the name was already canonical and nothing
	// failed.
	StatusUnchanged
	// StatusError means at least one step failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnchanged:
		return "unchanged"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Record is the immutable account of one file's processing. Path holds
// the file's current location, after any rename.
type Record struct {
	Path     string
	OrigName string

	NameTime phototime.Time
	ExifTime phototime.Time
	Scenario phototime.Scenario

	// Target is the resolved time after date-only supplementing.
	Target phototime.Time

	NewName       string
	Renamed       bool
	ExifWritten   bool
	FSTimeWritten bool

	Err error
}

// Status reports the record's classification.
func (r Record) Status() Status {
	switch {
	case r.Err != nil:
		return StatusError
	case r.Renamed:
		return StatusSuccess
	default:
		return StatusUnchanged
	}
}

// FixFile processes a single photo file: parse the name, read the
// metadata, resolve the target time, rename, then write the metadata
// tags and the filesystem times. The two writes are attempted
// independently; a failure of one does not skip the other, and a
// failure of either is recorded as the file's error. Errors never
// propagate as panics; they are recorded on the returned Record.
func FixFile(path string) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			rec.Err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	rec = Record{Path: path, OrigName: filepath.Base(path)}

	rec.NameTime, _ = phototime.ParseFilename(rec.OrigName)
	rec.ExifTime, _ = exifmeta.Read(path)

	target, scenario := phototime.Resolve(rec.NameTime, rec.ExifTime)
	rec.Scenario = scenario
	if target.IsZero() {
		rec.Err = errors.New("unable to parse time")
		return rec
	}

	// A date-only target borrows the current wall clock so that files
	// sharing a date do not collide on the canonical name.
	if !target.Timed() {
		target = target.Supplement(phototime.Now())
	}
	rec.Target = target

	rec.NewName = "IMG_" + target.FilenameStamp() + filepath.Ext(rec.OrigName)
	if rec.NewName != rec.OrigName {
		newPath := filepath.Join(filepath.Dir(path), rec.NewName)
		if taken, err := nameTaken(path, newPath); err != nil {
			rec.Err = fmt.Errorf("checking target name: %w", err)
			return rec
		} else if taken {
			rec.Err = fmt.Errorf("target name already exists: %s", rec.NewName)
			return rec
		}
		if err := os.Rename(path, newPath); err != nil {
			rec.Err = fmt.Errorf("renaming: %w", err)
			return rec
		}
		rec.Renamed = true
		rec.Path = newPath
	}

	// Metadata first: rewriting the image resets the filesystem times.
	rec.ExifWritten = exifmeta.Write(rec.Path, target)
	if err := fstimes.Set(rec.Path, target); err != nil {
		rec.Err = fmt.Errorf("setting file times: %w", err)
	} else {
		rec.FSTimeWritten = true
	}
	if !rec.ExifWritten && rec.Err == nil {
		rec.Err = errors.New("writing metadata tags failed")
	}

	return rec
}

// nameTaken reports whether newPath already names a different file.
// Renames that only change letter case on a case-insensitive filesystem
// resolve to the same file and are not collisions.
func nameTaken(oldPath, newPath string) (bool, error) {
	newInfo, err := os.Stat(newPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		return false, err
	}
	return !os.SameFile(oldInfo, newInfo), nil
}
