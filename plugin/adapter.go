package plugin

/*

	The Adapter sits aside /battito/
	Contains core interfaces for Plugin

*/

import (
	"image"

	Mt "github.com/maroda/battito/types"
)

// FrameReducer collapses a captured frame region into the single
// brightness scalar the engine ingests. The default red+green
// reduction is load-bearing for the gate thresholds; alternates are
// for experimentation. Region is the sampling window inside the
// frame, typically a small square at the center.
type FrameReducer interface {
	Reduce(img image.Image, region image.Rectangle) float64
	Type() string // Unique ID for the reducer
}

// OutputAdapter can be used to define a place for beat data to go,
// beat-by-beat or in batches if supported by the output type.
type OutputAdapter interface {
	WriteBeat(beat *Mt.Beat) error                   // Write singleton beat data
	WriteBatch(beats []*Mt.Beat) error               // Write batches of beats
	QueryRange(start, end int64) ([]*Mt.Beat, error) // Timestamp range query tool
	Flush() error                                    // Flush any buffered data
	Close() error                                    // Close the adapter and release resources
	Type() string                                    // ID for output
}
