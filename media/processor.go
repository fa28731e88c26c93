package media

import (
	"fmt"
	"io"
	"log"

	"github.com/disintegration/imaging"
)

const ThumbnailJpegQuality = 90

// Processor handles thumbnail generation. it relies on a Store implementation
// for reading originals and saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GenerateThumbnail writes a thumbnail for the original named fileName under
// the same name in the thumbnail tree. The image is fit inside the options'
// box without upscaling and re-encoded in the original's format. returns
// relative path to saved thumb or error.
func (p *Processor) GenerateThumbnail(fileName string, opts ThumbnailOptions) (string, error) {
	if !IsRasterImage(fileName) {
		return "", fmt.Errorf("unsupported image format for '%s'", fileName)
	}
	if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
		return "", fmt.Errorf("invalid thumbnail box %dx%d", opts.MaxWidth, opts.MaxHeight)
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = ThumbnailJpegQuality
	}

	format, err := imaging.FormatFromFilename(fileName)
	if err != nil {
		return "", fmt.Errorf("cannot determine output format for '%s': %w", fileName, err)
	}

	originalPath, err := p.store.FullPath(AssetTypeOriginal, fileName)
	if err != nil {
		return "", err
	}
	originalImg, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	bounds := originalImg.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", fmt.Errorf("invalid original image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Fit returns a copy unchanged when the image already fits the box
	thumb := imaging.Fit(originalImg, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		err := imaging.Encode(writer, thumb, format, imaging.JPEGQuality(quality))
		if err != nil {
			log.Printf("processor: Failed to encode thumbnail: %v", err)
			writer.CloseWithError(fmt.Errorf("thumbnail encoding failed: %w", err))
			return
		}
		writer.Close()
	}()

	savedRelPath, err := p.store.Save(AssetTypeThumbnail, fileName, reader)
	// unblock the encoder if Save bailed out before draining the pipe
	reader.Close()
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail via store: %w", err)
	}

	log.Printf("processor: Generated thumbnail for %s (%dx%d -> %dx%d) at %s",
		fileName, bounds.Dx(), bounds.Dy(), thumb.Bounds().Dx(), thumb.Bounds().Dy(), savedRelPath)
	return savedRelPath, nil
}
