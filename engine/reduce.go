package battito

import (
	"image"
)

// RedGreenMean reduces an image region to one brightness scalar in
// [0,1]: the sum of red and green channel intensity over every pixel,
// divided by pixels * 2 * 255. Blue is deliberately excluded and the
// exact weighting is load-bearing: the gate thresholds are tuned
// against this normalization. Blood-volume change under illumination
// shows up strongest in red and green.
func RedGreenMean(img image.Image, region image.Rectangle) float64 {
	r := region.Intersect(img.Bounds())
	if r.Empty() {
		return 0
	}

	var sum uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, _, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels, scale back to 8-bit
			sum += uint64(cr>>8) + uint64(cg>>8)
		}
	}

	pixels := r.Dx() * r.Dy()
	return float64(sum) / (float64(pixels) * 2 * 255)
}

// LumaMean is the alternate reduction: Rec.601 luma over the region,
// normalized to [0,1]. Not the default, the thresholds assume the
// red+green reduction.
func LumaMean(img image.Image, region image.Rectangle) float64 {
	r := region.Intersect(img.Bounds())
	if r.Empty() {
		return 0
	}

	var sum float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sum += 0.299*float64(cr>>8) + 0.587*float64(cg>>8) + 0.114*float64(cb>>8)
		}
	}

	pixels := r.Dx() * r.Dy()
	return sum / (float64(pixels) * 255)
}
