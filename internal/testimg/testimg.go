// Package testimg writes small valid image files for tests. The images
// are encoded at runtime so no binary fixtures live in the repository;
// none of them carry any metadata until a test adds it.
package testimg

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// pixels returns a small gradient so the encoders have real content to
// compress.
func pixels() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 0x80, A: 0xff})
		}
	}
	return img
}

// WriteJPEG writes a JPEG with no metadata segments to dir/name and
// returns its path.
func WriteJPEG(t testing.TB, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, pixels(), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WritePNG writes a PNG with no metadata chunks to dir/name and returns
// its path.
func WritePNG(t testing.TB, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, pixels()); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WriteGIF writes a GIF to dir/name and returns its path.
func WriteGIF(t testing.TB, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, pixels(), nil); err != nil {
		t.Fatalf("encoding gif: %v", err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WriteFile writes arbitrary bytes to dir/name; tests use it for files
// that only pretend to be images.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
