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

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the main process log. All named logs should be derivatives of
// this logger. All log emissions should be sent through this logger or
// one of its derivatives.
var Log = newLogger()

// newLogger returns a logger that writes to the console and to the
// per-run log file once one has been attached with AttachRunLog. The
// console gets everything down to DEBUG; the run log keeps INFO and up.
// There is no sampling: every per-file audit line must survive.
func newLogger() *zap.Logger {
	fileOut := zapcore.Lock(zapcore.AddSync(runLogOutput))
	consoleOut := zapcore.Lock(os.Stderr)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format("2006/01/02 15:04:05.000"))
	}
	fileCfg := encCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder // no color codes in the file
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), consoleOut, zap.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(fileCfg), fileOut, zap.InfoLevel),
	)

	return zap.New(core)
}

// AttachRunLog points the file half of Log at path, creating the file.
// The returned function detaches the sink and closes the file; until it
// is called, every INFO-and-up emission lands in the file as well.
func AttachRunLog(path string) (detach func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	runLogOutput.set(f)
	return func() error {
		runLogOutput.set(nil)
		return f.Close()
	}, nil
}

// switchWriter is a writer whose destination can be attached and detached
// while the logger lives. Writes made while detached are dropped.
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (sw *switchWriter) Write(p []byte) (int, error) {
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	if sw.w == nil {
		return len(p), nil
	}
	return sw.w.Write(p)
}

func (sw *switchWriter) set(w io.Writer) {
	sw.mu.Lock()
	sw.w = w
	sw.mu.Unlock()
}

// runLogOutput mediates the per-run log file sink.
var runLogOutput = new(switchWriter)
