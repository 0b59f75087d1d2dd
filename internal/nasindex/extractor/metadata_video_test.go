package extractor

import (
	"context"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantOk  bool
	}{
		{"30/1", 30, true},
		{"24000/1001", 23.976023976023978, true},
		{"", 0, false},
		{"garbage", 0, false},
		{"1/0", 0, false},
	}
	for _, c := range cases {
		got, ok := parseFrameRate(c.in)
		if ok != c.wantOk {
			t.Errorf("parseFrameRate(%q) ok = %v, want %v", c.in, ok, c.wantOk)
			continue
		}
		if ok && got != c.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExtractVideoMetadataMissingFFprobe(t *testing.T) {
	// ffprobe is not guaranteed to be on PATH in a test sandbox; the
	// extractor must degrade to an empty map rather than panicking.
	meta := extractVideoMetadata(context.Background(), "/nonexistent/path.mp4")
	if meta == nil {
		t.Error("expected a non-nil (possibly empty) metadata map")
	}
}
