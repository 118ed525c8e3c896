package imageutil

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	pnm "github.com/go-forks/gopnm"
	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
)

// pngEncoder trades encode time for size; full-scale outputs are
// millions of pixels and dominate the artifact directory otherwise.
var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// SaveImage saves an image to the specified path.
// Format is determined by file extension: png, jpg/jpeg, gif,
// tif/tiff, and ppm/pnm are supported. Unknown extensions encode as PNG.
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return pngEncoder.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	case ".ppm", ".pnm":
		return pnm.Encode(f, img, pnm.PPM)
	default:
		return pngEncoder.Encode(f, img)
	}
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	defer f.Close()

	return pngEncoder.Encode(f, img)
}
