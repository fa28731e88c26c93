package models

import (
	"strconv"
	"strings"
)

// Placeholder is rendered for descriptive fields that are missing or empty.
const Placeholder = "—"

const (
	OriginalsDir  = "images/originals"
	ThumbnailsDir = "images/thumbnails"
)

// Photo is one catalogued astrophotography entry as stored in the index resource.
// Descriptive fields are nullable; the index file may omit any of them.
type Photo struct {
	ID           int     `json:"id"`
	Object       string  `json:"object"`
	Date         string  `json:"date"`
	ShootingDate *string `json:"shootingDate,omitempty"`
	FileName     string  `json:"fileName"`

	Telescope     *string `json:"telescope,omitempty"`
	Camera        *string `json:"camera,omitempty"`
	Filters       *string `json:"filters,omitempty"`
	Exposure      *string `json:"exposure,omitempty"`
	Frames        *int    `json:"frames,omitempty"`
	TotalExposure *string `json:"totalExposure,omitempty"`
	Processing    *string `json:"processing,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// DetailField is a label/value pair of the detail panel.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OriginalURL returns the full-resolution asset URL below base.
func (p Photo) OriginalURL(base string) string {
	return joinURL(base, OriginalsDir, p.FileName)
}

// ThumbnailURL returns the derived thumbnail URL below base. The thumbnail
// shares the original's filename.
func (p Photo) ThumbnailURL(base string) string {
	return joinURL(base, ThumbnailsDir, p.FileName)
}

// DetailFields projects the descriptive metadata in display order. Missing
// values render as Placeholder.
func (p Photo) DetailFields() []DetailField {
	frames := ""
	if p.Frames != nil && *p.Frames != 0 {
		frames = strconv.Itoa(*p.Frames)
	}
	return []DetailField{
		{Label: "Telescope", Value: orPlaceholder(deref(p.Telescope))},
		{Label: "Camera", Value: orPlaceholder(deref(p.Camera))},
		{Label: "Filters", Value: orPlaceholder(deref(p.Filters))},
		{Label: "Exposure time", Value: orPlaceholder(deref(p.Exposure))},
		{Label: "Frame count", Value: orPlaceholder(frames)},
		{Label: "Total integration time", Value: orPlaceholder(deref(p.TotalExposure))},
		{Label: "Processing", Value: orPlaceholder(deref(p.Processing))},
		{Label: "Date", Value: orPlaceholder(deref(p.ShootingDate))},
	}
}

// DescriptionText returns the description, or "" when there is none to show.
func (p Photo) DescriptionText() string {
	return deref(p.Description)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func joinURL(base string, parts ...string) string {
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.Join(parts, "/")
}
