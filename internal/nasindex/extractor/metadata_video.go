package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

// extractVideoMetadata shells out to ffprobe for container/stream
// metadata, mirroring the original extractor's subprocess invocation.
func extractVideoMetadata(ctx context.Context, containerPath string) map[string]any {
	meta := map[string]any{}

	out, err := runFFprobe(ctx, containerPath)
	if err != nil {
		log.Warn().Str("path", containerPath).Err(err).Msg("ffprobe failed")
		return meta
	}

	if out.Format.Duration != "" {
		if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			meta["duration"] = int(d)
		}
	}
	if out.Format.BitRate != "" {
		if br, err := strconv.Atoi(out.Format.BitRate); err == nil {
			meta["bit_rate"] = br
		}
	}

	var video, audio *ffprobeStream
	for i := range out.Streams {
		s := &out.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}

	if video != nil {
		meta["width"] = video.Width
		meta["height"] = video.Height
		meta["video_codec"] = video.CodecName
		if fr, ok := parseFrameRate(video.RFrameRate); ok {
			meta["frame_rate"] = fr
		}
		meta["resolution"] = fmt.Sprintf("%dx%d", video.Width, video.Height)
	}
	if audio != nil {
		meta["audio_codec"] = audio.CodecName
	}

	return meta
}

func runFFprobe(ctx context.Context, containerPath string) (*ffprobeOutput, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", containerPath,
	)
	stdout, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var out ffprobeOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProbeDuration is the subset of ffprobe output the thumbnail renderer
// needs to pick a seek offset for video frame extraction.
func ProbeDuration(ctx context.Context, containerPath string) (float64, error) {
	out, err := runFFprobe(ctx, containerPath)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(out.Format.Duration, 64)
}

func parseFrameRate(raw string) (float64, bool) {
	if raw == "" || !strings.Contains(raw, "/") {
		return 0, false
	}
	parts := strings.SplitN(raw, "/", 2)
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}
