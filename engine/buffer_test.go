package battito_test

import (
	"testing"

	Mb "github.com/maroda/battito/engine"
	Mt "github.com/maroda/battito/types"
)

func TestSampleBuffer_Push(t *testing.T) {
	t.Run("Never exceeds capacity", func(t *testing.T) {
		sb := Mb.NewSampleBuffer(10)
		for i := 0; i < 35; i++ {
			sb.Push(Mt.Sample{Value: float64(i), Timestamp: int64(i)})
			if sb.Len() > 10 {
				t.Fatalf("buffer overran capacity: len %d", sb.Len())
			}
		}
		assertInt(t, sb.Len(), 10)
	})

	t.Run("Evicts exactly one oldest sample per push when full", func(t *testing.T) {
		// Capacity 300, push 301 strictly increasing values:
		// length stays 300 and the first retained value is the 2nd pushed
		sb := Mb.NewSampleBuffer(300)
		for i := 0; i < 301; i++ {
			sb.Push(Mt.Sample{Value: float64(i), Timestamp: int64(i)})
		}

		assertInt(t, sb.Len(), 300)
		assertFloat(t, sb.Samples[0].Value, 1)
		assertFloat(t, sb.Samples[299].Value, 300)
	})

	t.Run("Retains insertion order", func(t *testing.T) {
		sb := Mb.NewSampleBuffer(5)
		for i := 0; i < 8; i++ {
			sb.Push(Mt.Sample{Value: float64(i), Timestamp: int64(i)})
		}
		for i, s := range sb.Samples {
			assertFloat(t, s.Value, float64(i+3))
		}
	})
}

func TestSampleBuffer_Clear(t *testing.T) {
	sb := Mb.NewSampleBuffer(4)
	sb.Push(Mt.Sample{Value: 0.5, Timestamp: 1})
	sb.Push(Mt.Sample{Value: 0.6, Timestamp: 2})

	sb.Clear()
	assertInt(t, sb.Len(), 0)

	// still usable after clearing
	sb.Push(Mt.Sample{Value: 0.7, Timestamp: 3})
	assertInt(t, sb.Len(), 1)
}

func TestSampleBuffer_Values(t *testing.T) {
	sb := Mb.NewSampleBuffer(3)
	sb.Push(Mt.Sample{Value: 0.1, Timestamp: 1})
	sb.Push(Mt.Sample{Value: 0.2, Timestamp: 2})

	vals := sb.Values()
	assertInt(t, len(vals), 2)
	assertFloat(t, vals[0], 0.1)
	assertFloat(t, vals[1], 0.2)
}
