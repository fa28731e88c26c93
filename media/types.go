// media/types.go
package media

type AssetType string

const (
	AssetTypeOriginal  AssetType = "original"
	AssetTypeThumbnail AssetType = "thumbnail"
)

// ThumbnailOptions bounds a generated thumbnail. The image is scaled to fit
// inside MaxWidth x MaxHeight, never enlarged.
type ThumbnailOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // jpeg only
}

// Metadata is what the detail API reports about an original file.
// Astro cameras and stacking tools often write little or no EXIF, so
// every field is optional.
type Metadata struct {
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	Format       string   `json:"format,omitempty"`
	ExposureTime *string  `json:"exposureTime,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focalLength,omitempty"`
	CameraMake   *string  `json:"cameraMake,omitempty"`
	CameraModel  *string  `json:"cameraModel,omitempty"`
	Software     *string  `json:"software,omitempty"`
	TakenAt      *int64   `json:"takenAt,omitempty"`
}
