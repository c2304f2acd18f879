package media

import (
	"reflect"
	"testing"

	"github.com/ytget/video-downloader/internal/extractor"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "--:--"},
		{-3, "--:--"},
		{5, "0:05"},
		{65.9, "1:05"},
		{600, "10:00"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, test := range tests {
		if got := FormatDuration(test.seconds); got != test.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", test.seconds, got, test.expected)
		}
	}
}

func TestQualities(t *testing.T) {
	formats := []extractor.Format{
		{Height: 720, VCodec: "avc1"},
		{Height: 2160, VCodec: "vp9"},
		{Height: 1440, VCodec: "vp9"},
		{Height: 720, VCodec: "vp9"},
		{Height: 0, VCodec: "none", ACodec: "opus"},
		{Height: 1080, VCodec: "none"},
		{Height: 360, VCodec: "avc1"},
	}

	expected := []string{"Best", "2160p (4K)", "1440p (2K)", "720p", "360p"}
	if got := Qualities(formats); !reflect.DeepEqual(got, expected) {
		t.Errorf("Qualities() = %v, expected %v", got, expected)
	}
}

func TestQualities_Default(t *testing.T) {
	got := Qualities(nil)
	if !reflect.DeepEqual(got, DefaultQualities) {
		t.Errorf("Qualities(nil) = %v, expected %v", got, DefaultQualities)
	}
	got[0] = "mutated"
	if DefaultQualities[0] != "Best" {
		t.Error("Qualities must return a copy of the defaults")
	}
}
