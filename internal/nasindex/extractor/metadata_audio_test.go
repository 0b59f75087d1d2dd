package extractor

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExtractAudioMetadataUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-audio.mp3")
	meta := extractAudioMetadata(context.Background(), path)
	if len(meta) != 0 {
		t.Errorf("expected empty metadata for a missing file, got %v", meta)
	}
}
