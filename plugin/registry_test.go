package plugin_test

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	Mp "github.com/maroda/battito/plugin"
)

func TestReducerLookup(t *testing.T) {
	t.Run("Known reducers resolve by name", func(t *testing.T) {
		for _, name := range []string{"red_green", "luma"} {
			r, err := Mp.ReducerLookup(name)
			if err != nil {
				t.Fatalf("lookup %q failed: %v", name, err)
			}
			assertString(t, r.Type(), name)
		}
	})

	t.Run("Unknown reducer is an error", func(t *testing.T) {
		_, err := Mp.ReducerLookup("chroma")
		if err == nil {
			t.Error("wanted an error for an unknown reducer, got none")
		}
	})
}

func TestReducers_Reduce(t *testing.T) {
	fill := func(c color.RGBA) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
		return img
	}

	t.Run("red_green ignores the blue channel", func(t *testing.T) {
		r, _ := Mp.ReducerLookup("red_green")
		a := fill(color.RGBA{R: 120, G: 80, B: 0, A: 255})
		b := fill(color.RGBA{R: 120, G: 80, B: 255, A: 255})
		assertFloat(t, r.Reduce(a, a.Bounds()), r.Reduce(b, b.Bounds()))
	})

	t.Run("luma weighs the blue channel", func(t *testing.T) {
		r, _ := Mp.ReducerLookup("luma")
		a := fill(color.RGBA{R: 120, G: 80, B: 0, A: 255})
		b := fill(color.RGBA{R: 120, G: 80, B: 255, A: 255})
		if r.Reduce(a, a.Bounds()) == r.Reduce(b, b.Bounds()) {
			t.Error("luma reduction should respond to blue")
		}
	})

	t.Run("Both reductions are normalized to [0,1]", func(t *testing.T) {
		white := fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
		for _, name := range []string{"red_green", "luma"} {
			r, _ := Mp.ReducerLookup(name)
			v := r.Reduce(white, white.Bounds())
			if v < 0 || v > 1.0001 {
				t.Errorf("%s reduced white to %v, want [0,1]", name, v)
			}
		}
	})
}

func assertString(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func assertFloat(t *testing.T, got, want float64) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertInt(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}
