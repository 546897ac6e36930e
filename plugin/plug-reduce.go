package plugin

/*
	FrameReducer implementations

	Returns a normalized brightness scalar for the engine

	~~~ Plugin Reference Implementation ~~~
*/

import (
	"image"

	Mb "github.com/maroda/battito/engine"
)

// RedGreenReducer is the default reduction: red+green channel sum
// over the region, normalized by pixels * 2 * 255. The engine's
// signal-range and noise thresholds are tuned against it.
type RedGreenReducer struct{}

func (p *RedGreenReducer) Reduce(img image.Image, region image.Rectangle) float64 {
	return Mb.RedGreenMean(img, region)
}

func (p *RedGreenReducer) Type() string { return "red_green" }

// LumaReducer uses Rec.601 luma instead. Useful for sensors whose
// red channel saturates under torch light.
type LumaReducer struct{}

func (p *LumaReducer) Reduce(img image.Image, region image.Rectangle) float64 {
	return Mb.LumaMean(img, region)
}

func (p *LumaReducer) Type() string { return "luma" }
