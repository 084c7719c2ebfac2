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

package fixer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"github.com/phototimefix/phototimefix/phototime"
)

var mediaExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".webp": true,
	".heic": true,
	".raw":  true,
}

// Report aggregates one directory run.
type Report struct {
	Dir   string
	RunID string

	Total     int
	Succeeded int
	Unchanged int
	Failed    int

	Records []Record
}

func (r *Report) add(rec Record) {
	r.Total++
	switch rec.Status() {
	case StatusSuccess:
		r.Succeeded++
	case StatusUnchanged:
		r.Unchanged++
	case StatusError:
		r.Failed++
	}
	r.Records = append(r.Records, rec)
}

// Run walks dir recursively, processes every media file through FixFile
// in natural name order, and writes a per-run log file into dir. Per-file
// failures are recorded and counted, never propagated; the returned
// error covers only the run itself (unreadable directory).
func Run(dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	runID := uuid.New().String()

	logName := sanitizeBase(dir) + "_" + phototime.Now().FilenameStamp() + ".log"
	detach, err := phototime.AttachRunLog(filepath.Join(dir, logName))
	if err != nil {
		phototime.Log.Warn("cannot create run log in target directory",
			zap.String("dir", dir), zap.Error(err))
	} else {
		defer func() {
			if err := detach(); err != nil {
				phototime.Log.Warn("closing run log", zap.Error(err))
			}
		}()
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			phototime.Log.Warn("skipping unreadable entry",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !mediaExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(paths, func(i, j int) bool {
		return natural.Less(paths[i], paths[j])
	})

	report := &Report{Dir: dir, RunID: runID}
	phototime.Log.Info("run started",
		zap.String("run_id", runID),
		zap.String("dir", dir),
		zap.Int("files", len(paths)))

	for i, path := range paths {
		rec := FixFile(path)
		report.add(rec)
		phototime.Log.Info("processed file",
			zap.Int("seq", i+1),
			zap.Int("of", len(paths)),
			zap.String("file", rec.OrigName),
			zap.String("name_time", rec.NameTime.String()),
			zap.String("exif_time", rec.ExifTime.String()),
			zap.Stringer("scenario", rec.Scenario),
			zap.String("target", rec.Target.String()),
			zap.String("new_name", rec.NewName),
			zap.Bool("exif_written", rec.ExifWritten),
			zap.Bool("fs_time_written", rec.FSTimeWritten),
			zap.Stringer("status", rec.Status()),
			zap.Error(rec.Err))
	}

	phototime.Log.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", report.Failed))

	return report, nil
}

// sanitizeBase reduces the directory's base name to characters that are
// safe in a log filename on every platform.
func sanitizeBase(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if s := strings.Trim(b.String(), "_"); s != "" {
		return s
	}
	return "run"
}
