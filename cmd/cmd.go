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

// Package ptfcmd facilitates the command line interface (CLI)
// and implements the main().
package ptfcmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/phototimefix/phototimefix/fixer"
	"github.com/phototimefix/phototimefix/phototime"
	"github.com/phototimefix/phototimefix/selftest"
)

// defaultDir is processed when the program is invoked with no argument.
const defaultDir = "photos"

var selfTest bool

func init() {
	flag.BoolVar(&selfTest, "test", false, "run the built-in self-test suite and exit")
	flag.BoolVar(&selfTest, "t", false, "run the built-in self-test suite and exit (shorthand)")
}

func Main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	if selfTest {
		_, failed := selftest.Run()
		if failed > 0 {
			return 1
		}
		return 0
	}

	if err := checkFlagParsing(); err != nil {
		phototime.Log.Error("possible syntax error detected", zap.Error(err))
		return 1
	}
	if len(args) > 1 {
		phototime.Log.Error("expected a single directory or file argument",
			zap.Strings("got", args))
		usage()
		return 1
	}

	path := defaultDir
	if len(args) == 1 {
		path = args[0]
	}

	info, err := os.Stat(path)
	if err != nil {
		phototime.Log.Error("cannot open path", zap.String("path", path), zap.Error(err))
		return 1
	}

	switch {
	case info.IsDir():
		if _, err := fixer.Run(path); err != nil {
			phototime.Log.Error("directory run failed",
				zap.String("dir", path), zap.Error(err))
			return 1
		}
		return 0
	case info.Mode().IsRegular():
		rec := fixer.FixFile(path)
		phototime.Log.Info("processed file",
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
		if rec.Err != nil {
			return 1
		}
		return 0
	default:
		phototime.Log.Error("path is neither a directory nor a regular file",
			zap.String("path", path))
		return 1
	}
}

// checkFlagParsing returns an error if it looks like the program was
// invoked with flags after the positional argument, as in
// `phototimefix photos -t`; stdlib flag parsing stops at the first
// positional, so such flags are silently ignored unless caught here.
func checkFlagParsing() error {
	if len(os.Args) > 2 && flag.NFlag() == 0 {
		return errors.New("it looks like you intended to specify flags, but none were parsed; make sure flags go before positional arguments")
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] [path]

Normalizes the recorded capture time of the photo files under path,
or of a single file. With no path, processes %q.

`, os.Args[0], defaultDir)
	flag.PrintDefaults()
}
