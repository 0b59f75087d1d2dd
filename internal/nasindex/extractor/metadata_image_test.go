package extractor

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestExtractImageMetadataDimensions(t *testing.T) {
	path := writePNG(t, 64, 32)
	meta := extractImageMetadata(path)

	if meta["width"] != 64 || meta["height"] != 32 {
		t.Errorf("dimensions = %v/%v, want 64/32", meta["width"], meta["height"])
	}
	if meta["color_space"] == nil {
		t.Error("expected a color_space field")
	}
	if _, ok := meta["camera_make"]; ok {
		t.Error("did not expect camera_make on an EXIF-less PNG")
	}
}

func TestExtractImageMetadataMissingFile(t *testing.T) {
	meta := extractImageMetadata(filepath.Join(t.TempDir(), "missing.png"))
	if len(meta) != 0 {
		t.Errorf("expected empty metadata for missing file, got %v", meta)
	}
}
