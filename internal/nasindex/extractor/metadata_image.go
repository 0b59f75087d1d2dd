package extractor

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rs/zerolog/log"

	// Blank-imported for format registration (image.DecodeConfig dispatches
	// on the sniffed format name): the stdlib only ships jpeg/png/gif,
	// these extend decode support to the extra image extensions the
	// pipeline watches for (bmp, tiff, webp).
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// extractImageMetadata implements the image branch of §4.4's
// type-specific metadata table: decoder-reported dimensions/format plus
// EXIF camera/lens/GPS fields.
func extractImageMetadata(containerPath string) map[string]any {
	meta := map[string]any{}

	if f, err := os.Open(containerPath); err == nil {
		defer f.Close()
		if cfg, format, err := image.DecodeConfig(f); err == nil {
			meta["width"] = cfg.Width
			meta["height"] = cfg.Height
			meta["color_space"] = colorSpaceName(cfg.ColorModel)
			_ = format // the raw decoder format is dropped from the document per §3
		} else {
			log.Debug().Str("path", containerPath).Err(err).Msg("image decode failed")
		}
	}

	f, err := os.Open(containerPath)
	if err != nil {
		return meta
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// Malformed or absent EXIF: proceed with whatever fields were
		// extracted, per the error taxonomy's "malformed metadata" case.
		return meta
	}

	if v := tagString(x, exif.Make); v != "" {
		meta["camera_make"] = v
	}
	if v := tagString(x, exif.Model); v != "" {
		meta["camera_model"] = v
	}
	if v := tagString(x, exif.LensModel); v != "" {
		meta["lens_model"] = v
	}
	if v, ok := tagRational(x, exif.FocalLength); ok {
		meta["focal_length"] = v
	}
	if v, ok := tagRational(x, exif.FNumber); ok {
		meta["aperture"] = v
	}
	if v, ok := tagInt(x, exif.ISOSpeedRatings); ok {
		meta["iso_speed"] = v
	}
	if v := shutterSpeedString(x); v != "" {
		meta["shutter_speed"] = v
	}
	if v, ok := flashFired(x); ok {
		meta["flash"] = v
	}
	if lat, lon, err := x.LatLong(); err == nil {
		meta["gps_location"] = fmt.Sprintf("%.6f,%.6f", lat, lon)
	}
	if v, ok := tagRational(x, exif.GPSAltitude); ok {
		meta["gps_altitude"] = v
	}

	return meta
}

func colorSpaceName(m color.Model) string {
	switch m {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return "RGB"
	case color.GrayModel, color.Gray16Model:
		return "Grayscale"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "YCbCr"
	default:
		return fmt.Sprintf("%T", m)
	}
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return strings.Trim(tag.String(), `"`)
	}
	return v
}

func tagInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return v, true
}

func tagRational(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

func shutterSpeedString(x *exif.Exif) string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil || num == 0 {
		return ""
	}
	if num == 1 {
		return fmt.Sprintf("1/%d", den)
	}
	return fmt.Sprintf("%g", float64(num)/float64(den))
}

func flashFired(x *exif.Exif) (bool, bool) {
	tag, err := x.Get(exif.Flash)
	if err != nil {
		return false, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return false, false
	}
	// Bit 0 of the EXIF Flash tag indicates whether the flash fired,
	// independent of the higher bits' mode/function flags.
	return v&0x1 != 0, true
}
