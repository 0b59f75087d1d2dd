package extractor

import (
	"context"
	"os"
	"strconv"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog/log"
)

// extractAudioMetadata reads ID3/MP4/FLAC/OGG tags, grounded on the
// original extractor's rank-ordered tag-name lookup (TPE1/ARTIST/©ART
// and friends) — dhowden/tag already normalizes those container-specific
// frame names into one Metadata interface, so the ranking collapses to
// direct field reads. Duration isn't exposed by the tag library, so it
// falls back to the same ffprobe call the video branch uses.
func extractAudioMetadata(ctx context.Context, containerPath string) map[string]any {
	meta := map[string]any{}

	f, err := os.Open(containerPath)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.Warn().Str("path", containerPath).Err(err).Msg("audio tag read failed")
		return meta
	}

	if v := m.Artist(); v != "" {
		meta["artist"] = v
	}
	if v := m.Album(); v != "" {
		meta["album"] = v
	}
	if v := m.Title(); v != "" {
		meta["title"] = v
	}
	if v := m.Genre(); v != "" {
		meta["genre"] = v
	}
	if v := m.Year(); v != 0 {
		meta["year"] = v
	}
	if track, _ := m.Track(); track != 0 {
		meta["track_number"] = track
	}

	if out, err := runFFprobe(ctx, containerPath); err == nil && out.Format.Duration != "" {
		if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			meta["duration"] = int(d)
		}
	}

	return meta
}
