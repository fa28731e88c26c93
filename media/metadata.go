package media

import (
	"fmt"
	"image"
	"io"
	"log"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// ReadMetadata extracts dimensions and EXIF data from an original image.
// Missing EXIF is not an error; the result then only carries dimensions.
func ReadMetadata(store Store, fileName string) (*Metadata, error) {
	file, _, err := store.Get(AssetTypeOriginal, fileName)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	defer file.Close()

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		return nil, fmt.Errorf("metadata: asset '%s' is not seekable", fileName)
	}

	meta := &Metadata{}
	config, format, err := image.DecodeConfig(seeker)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width, meta.Height, meta.Format = &w, &h, format
	} else {
		log.Printf("metadata: Could not decode dimensions of %s: %v", fileName, err)
	}

	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek %s: %w", fileName, err)
	}

	x, err := exif.Decode(seeker)
	if err != nil {
		// stacked and processed astro images frequently carry no EXIF block
		log.Printf("metadata: No EXIF data for %s: %v", fileName, err)
		return meta, nil
	}

	meta.ExposureTime = exposureTime(x)
	meta.ISO = intTag(x, exif.ISOSpeedRatings)
	meta.FocalLength = rationalTag(x, exif.FocalLength)
	meta.CameraMake = stringTag(x, exif.Make)
	meta.CameraModel = stringTag(x, exif.Model)
	meta.Software = stringTag(x, exif.Software)
	if dt, err := x.DateTime(); err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}
	return meta, nil
}

func rationalTag(x *exif.Exif, name exif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		if v, errInt := tag.Int(0); errInt == nil {
			f := float64(v)
			return &f
		}
		return nil
	}
	f := float64(num) / float64(den)
	return &f
}

func intTag(x *exif.Exif, name exif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &v
}

func stringTag(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return nil
	}
	v, err := tag.StringVal()
	if err != nil {
		return nil
	}
	v = strings.TrimSpace(strings.TrimRight(v, "\x00"))
	if v == "" {
		return nil
	}
	return &v
}

// exposureTime formats a single-sub exposure: "1/250" for short ones, "300s"
// style for the long exposures typical of deep-sky frames.
func exposureTime(x *exif.Exif) *string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}

	var s string
	val := float64(num) / float64(den)
	switch {
	case num == 1 && den > 1:
		s = fmt.Sprintf("1/%d", den)
	case val >= 1.0:
		s = fmt.Sprintf("%gs", val)
	default:
		s = fmt.Sprintf("%.4fs", val)
	}
	return &s
}
