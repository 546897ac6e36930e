package battito_test

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	Mb "github.com/maroda/battito/engine"
)

func uniformImage(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestRedGreenMean(t *testing.T) {
	t.Run("Uniform fill reduces to a known scalar", func(t *testing.T) {
		img := uniformImage(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 8, 8)
		got := Mb.RedGreenMean(img, img.Bounds())
		// (200 + 100) / (2 * 255)
		assertFloatNear(t, got, 300.0/510.0, 1e-9)
	})

	t.Run("Blue does not contribute", func(t *testing.T) {
		a := uniformImage(color.RGBA{R: 120, G: 80, B: 0, A: 255}, 4, 4)
		b := uniformImage(color.RGBA{R: 120, G: 80, B: 255, A: 255}, 4, 4)
		assertFloat(t, Mb.RedGreenMean(a, a.Bounds()), Mb.RedGreenMean(b, b.Bounds()))
	})

	t.Run("Region outside the image reduces to zero", func(t *testing.T) {
		img := uniformImage(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 4, 4)
		got := Mb.RedGreenMean(img, image.Rect(100, 100, 110, 110))
		assertFloat(t, got, 0)
	})

	t.Run("Region is clipped to image bounds", func(t *testing.T) {
		img := uniformImage(color.RGBA{R: 255, G: 255, B: 0, A: 255}, 4, 4)
		got := Mb.RedGreenMean(img, image.Rect(-10, -10, 100, 100))
		assertFloatNear(t, got, 1, 1e-9)
	})
}

func TestLumaMean(t *testing.T) {
	t.Run("Uniform fill reduces to Rec601 luma", func(t *testing.T) {
		img := uniformImage(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 8, 8)
		got := Mb.LumaMean(img, img.Bounds())
		want := (0.299*200 + 0.587*100 + 0.114*50) / 255
		assertFloatNear(t, got, want, 1e-9)
	})

	t.Run("White reduces to one", func(t *testing.T) {
		img := uniformImage(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 2, 2)
		assertFloatNear(t, Mb.LumaMean(img, img.Bounds()), 1, 1e-9)
	})
}
