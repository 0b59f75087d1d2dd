package thumbnail

import (
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/nasdex/indexer/internal/nasindex/queue"
)

// renderImage reproduces generate_image_thumbnails: EXIF-orientation
// aware decode, Lanczos resize that preserves aspect ratio, then
// centered onto a white canvas of the exact target dimensions before
// JPEG encoding.
func (w *Worker) renderImage(ev queue.FileEvent) (map[string]string, error) {
	// imaging.Open applies EXIF orientation during decode, the Go
	// equivalent of PIL's ImageOps.exif_transpose.
	src, err := imaging.Open(ev.ContainerPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(Sizes))
	for _, s := range Sizes {
		fitted := imaging.Fit(src, s.Width, s.Height, imaging.Lanczos)
		canvas := imaging.New(s.Width, s.Height, color.White)
		canvas = imaging.PasteCenter(canvas, fitted)

		dest := w.thumbnailPath(ev.FilePath, s.Name)
		if err := imaging.Save(canvas, dest, imaging.JPEGQuality(w.cfg.ThumbnailQuality)); err != nil {
			return out, err
		}
		out[s.Name] = dest
	}
	return out, nil
}
