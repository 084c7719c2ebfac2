package exifmeta

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/phototimefix/phototimefix/internal/testimg"
	"github.com/phototimefix/phototimefix/phototime"
)

func captureTime(t *testing.T, s string) phototime.Time {
	t.Helper()
	tm, ok := phototime.ParseBoundary(s)
	if !ok {
		t.Fatalf("bad test input %q", s)
	}
	return tm
}

func TestWriteAndReadJPEG(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WriteJPEG(t, dir, "plain.jpg")

	if _, ok := Read(path); ok {
		t.Fatal("expected no capture time in a fresh image")
	}

	target := captureTime(t, "2023-10-23 15:30:00")
	if !Write(path, target) {
		t.Fatal("expected metadata write to succeed")
	}

	actual, ok := Read(path)
	if !ok {
		t.Fatal("expected a capture time after the write")
	}
	if actual != target {
		t.Errorf("expected %s but got %s", target, actual)
	}

	tags, err := ReadTags(path)
	if err != nil {
		t.Fatalf("reading tags back: %v", err)
	}
	want := "2023:10:23 15:30:00"
	if tags.Original != want || tags.Digitized != want || tags.Image != want {
		t.Errorf("expected all three tags to be %q but got %+v", want, tags)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("image no longer decodes after metadata write: %v", err)
	}
}

func TestWriteAndReadPNG(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WritePNG(t, dir, "plain.png")

	target := captureTime(t, "2021-05-04 14:58:07")
	if !Write(path, target) {
		t.Fatal("expected metadata write to succeed")
	}

	actual, ok := Read(path)
	if !ok {
		t.Fatal("expected a capture time after the write")
	}
	if actual != target {
		t.Errorf("expected %s but got %s", target, actual)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("image no longer decodes after metadata write: %v", err)
	}
}

func TestWriteReplacesExistingTags(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WriteJPEG(t, dir, "twice.jpg")

	if !Write(path, captureTime(t, "2016-03-31 20:23:34")) {
		t.Fatal("expected first write to succeed")
	}
	second := captureTime(t, "2022-01-15 08:00:01")
	if !Write(path, second) {
		t.Fatal("expected second write to succeed")
	}

	actual, ok := Read(path)
	if !ok {
		t.Fatal("expected a capture time after the rewrite")
	}
	if actual != second {
		t.Errorf("expected %s but got %s", second, actual)
	}
}

func TestWriteDropsMilliseconds(t *testing.T) {
	// The tag form carries seconds only.
	dir := t.TempDir()
	path := testimg.WriteJPEG(t, dir, "millis.jpg")

	if !Write(path, captureTime(t, "2019-09-12 23:19:55.980")) {
		t.Fatal("expected metadata write to succeed")
	}
	actual, ok := Read(path)
	if !ok {
		t.Fatal("expected a capture time after the write")
	}
	if expect := "2019-09-12 23:19:55"; actual.String() != expect {
		t.Errorf("expected %s but got %s", expect, actual)
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WriteGIF(t, dir, "anim.gif")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if Write(path, captureTime(t, "2023-10-23 15:30:00")) {
		t.Error("expected write to an unsupported format to fail")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("unsupported file was modified")
	}
}

func TestWriteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.jpg")
	if Write(path, captureTime(t, "2023-10-23 15:30:00")) {
		t.Error("expected write to a missing file to fail")
	}
}

func TestWriteZeroTime(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WriteJPEG(t, dir, "zero.jpg")
	if Write(path, phototime.Time{}) {
		t.Error("expected write of an absent time to fail")
	}
}

func TestReadGarbageFile(t *testing.T) {
	dir := t.TempDir()
	path := testimg.WriteFile(t, dir, "broken.jpg", []byte("this is not an image at all"))
	if _, ok := Read(path); ok {
		t.Error("expected no capture time from garbage bytes")
	}
}

func TestTagsEarliest(t *testing.T) {
	for i, tc := range []struct {
		tags   Tags
		expect string
	}{
		{tags: Tags{}, expect: ""},
		{tags: Tags{Image: "2023:10:23 15:30:00"}, expect: "2023:10:23 15:30:00"},
		{
			tags:   Tags{Original: "2020:01:01 10:00:00", Image: "2023:10:23 15:30:00"},
			expect: "2020:01:01 10:00:00",
		},
		{
			tags: Tags{
				Original:  "2020:01:01 10:00:00",
				Digitized: "2019:12:31 23:59:59",
				Image:     "2023:10:23 15:30:00",
			},
			expect: "2019:12:31 23:59:59",
		},
		{
			tags:   Tags{Original: "2020:01:01 10:00:00", Digitized: "2020:01:01 10:00:00"},
			expect: "2020:01:01 10:00:00",
		},
	} {
		if actual := tc.tags.Earliest(); actual != tc.expect {
			t.Errorf("Test %d: expected %q but got %q", i, tc.expect, actual)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	faker := gofakeit.New(5)
	for i := 0; i < 10; i++ {
		d := faker.DateRange(
			time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC))
		target, ok := phototime.New(d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second())
		if !ok {
			t.Fatalf("Test %d: faked components did not validate: %v", i, d)
		}

		path := testimg.WriteJPEG(t, dir, fmt.Sprintf("rt%02d.jpg", i))
		if !Write(path, target) {
			t.Fatalf("Test %d: expected metadata write to succeed", i)
		}
		actual, ok := Read(path)
		if !ok {
			t.Fatalf("Test %d: expected a capture time after the write", i)
		}
		if actual != target {
			t.Errorf("Test %d: expected %s but got %s", i, target, actual)
		}
	}
}
