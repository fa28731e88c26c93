package media

import (
	"path/filepath"
	"strings"
)

// thumbnailExtensions are the raster formats a thumbnail can be written back
// in under the original's filename.
var thumbnailExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsRasterImage checks if the filename has an allow-listed raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return thumbnailExtensions[ext]
}
