// Package catalog tracks the images discovered from a folder and their
// available/used partition.
package catalog

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Orientation classifies an image by the shape of its bounding box.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// ParseOrientation converts a stored orientation string back to an
// Orientation value.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Landscape:
		return Landscape, nil
	case Portrait:
		return Portrait, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// Classify returns the orientation for the given pixel dimensions.
// Classification is purely by bounding box: square images count as
// landscape.
func Classify(width, height int) Orientation {
	if width >= height {
		return Landscape
	}
	return Portrait
}

// ImageInfo describes one discovered image. Path is the image identity:
// descriptors never change identity or orientation after creation.
type ImageInfo struct {
	Path        string      `json:"path"`
	Orientation Orientation `json:"orientation"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// Name returns the file name portion of the image path.
func (i *ImageInfo) Name() string {
	return filepath.Base(i.Path)
}

func (i *ImageInfo) String() string {
	return fmt.Sprintf("%s (%s)", i.Name(), i.Orientation)
}

// SupportedFormats returns the list of accepted image file extensions.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// ProbeDimensions reads the pixel dimensions of an image file without
// decoding its pixels.
func ProbeDimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
