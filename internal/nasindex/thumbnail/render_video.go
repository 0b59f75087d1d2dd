package thumbnail

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/nasdex/indexer/internal/nasindex/extractor"
	"github.com/nasdex/indexer/internal/nasindex/queue"
)

// renderVideo reproduces generate_video_thumbnails: probe duration to
// pick a seek offset 10% into the clip (floor 1s, default 5s on probe
// failure), then ask ffmpeg for a single scaled-and-padded frame per size.
func (w *Worker) renderVideo(ctx context.Context, ev queue.FileEvent) (map[string]string, error) {
	seek := 5.0
	if d, err := extractor.ProbeDuration(ctx, ev.ContainerPath); err == nil && d > 0 {
		seek = d * 0.1
		if seek < 1.0 {
			seek = 1.0
		}
	}

	out := make(map[string]string, len(Sizes))
	for _, s := range Sizes {
		dest := w.thumbnailPath(ev.FilePath, s.Name)
		filter := fmt.Sprintf(
			"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:white",
			s.Width, s.Height, s.Width, s.Height,
		)
		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-y", "-v", "quiet",
			"-ss", fmt.Sprintf("%f", seek),
			"-i", ev.ContainerPath,
			"-vframes", "1",
			"-vf", filter,
			"-q:v", "2",
			dest,
		)
		if err := cmd.Run(); err != nil {
			return out, err
		}
		out[s.Name] = dest
	}
	return out, nil
}
