// Package output writes heightmaps and run artefacts to disk.
package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// Image converts hm to an 8-bit or 16-bit grayscale image.
func Image(hm *models.Heightmap) image.Image {
	rect := image.Rect(0, 0, hm.Width, hm.Height)
	if hm.BitDepth == 8 {
		img := image.NewGray(rect)
		for y := 0; y < hm.Height; y++ {
			for x := 0; x < hm.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(hm.At(x, y))})
			}
		}
		return img
	}
	img := image.NewGray16(rect)
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: hm.At(x, y)})
		}
	}
	return img
}

// WritePNG encodes hm as a grayscale PNG at path, creating parent
// directories as needed.
func WritePNG(path string, hm *models.Heightmap) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(hm)); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
