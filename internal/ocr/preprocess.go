package ocr

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// minOCRWidth is the width below which scans are upscaled before recognition.
const minOCRWidth = 1600

// Preprocess writes a grayscale, contrast-boosted, sharpened copy of the image to a
// temporary PNG and returns its path. The caller removes the file.
func Preprocess(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}

	if img.Bounds().Dx() < minOCRWidth {
		img = imaging.Resize(img, minOCRWidth, 0, imaging.Lanczos)
	}
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)
	out = imaging.Sharpen(out, 1.0)

	f, err := os.CreateTemp("", "flightdocs-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	if err := imaging.Encode(f, out, imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("encoding image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return path, nil
}
