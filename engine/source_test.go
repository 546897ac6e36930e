package battito_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	Mb "github.com/maroda/battito/engine"
)

func TestSynthSource_Next(t *testing.T) {
	t.Run("Timestamps advance at the tick rate", func(t *testing.T) {
		src := Mb.NewSynthSource(72, 60)

		var prev int64 = -1
		for i := 0; i < 600; i++ {
			_, ts, err := src.Next()
			if err != nil {
				t.Fatalf("source failed: %v", err)
			}
			if ts <= prev && i > 0 {
				t.Fatalf("timestamp went backwards: %d after %d", ts, prev)
			}
			prev = ts
		}
		// 600 ticks at 60Hz is ten seconds
		assertFloatNear(t, float64(prev), 10000, 100)
	})

	t.Run("Values stay inside the brightness band", func(t *testing.T) {
		src := Mb.NewSynthSource(75, 60)
		for i := 0; i < 600; i++ {
			v, _, _ := src.Next()
			if v < 0.4 || v > 0.65 {
				t.Fatalf("value %.4f escaped the expected band", v)
			}
		}
	})

	t.Run("Runs are reproducible", func(t *testing.T) {
		a := Mb.NewSynthSource(72, 60)
		b := Mb.NewSynthSource(72, 60)
		a.Noise = 0.01
		b.Noise = 0.01

		for i := 0; i < 100; i++ {
			va, ta, _ := a.Next()
			vb, tb, _ := b.Next()
			assertFloat(t, va, vb)
			assertInt(t, int(ta), int(tb))
		}
	})
}

func TestHTTPSource_Next(t *testing.T) {
	t.Run("Decodes the configured value and timestamp keys", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"brightness": 0.43, "ts": 123456}`)
		}))
		defer srv.Close()

		src := Mb.NewHTTPSource(srv.URL, "brightness")
		v, ts, err := src.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertFloat(t, v, 0.43)
		assertInt(t, int(ts), 123456)
	})

	t.Run("Missing value key is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"lux": 0.43}`)
		}))
		defer srv.Close()

		src := Mb.NewHTTPSource(srv.URL, "brightness")
		_, _, err := src.Next()
		if err == nil {
			t.Error("wanted an error for a missing key, got none")
		}
	})

	t.Run("Non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		src := Mb.NewHTTPSource(srv.URL, "brightness")
		_, _, err := src.Next()
		if err == nil {
			t.Error("wanted an error for a 503, got none")
		}
	})

	t.Run("Timestamps never go backwards", func(t *testing.T) {
		// the collaborator reports a clock that jumps back
		stamps := []int64{5000, 3000, 6000}
		call := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"brightness": 0.5, "ts": %d}`, stamps[call])
			call++
		}))
		defer srv.Close()

		src := Mb.NewHTTPSource(srv.URL, "brightness")
		var prev int64
		for range stamps {
			_, ts, err := src.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ts < prev {
				t.Fatalf("timestamp went backwards: %d after %d", ts, prev)
			}
			prev = ts
		}
	})
}

func TestSingleFetchWithClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pulse")
	}))
	defer srv.Close()

	code, body, err := Mb.SingleFetch(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInt(t, code, http.StatusOK)
	assertString(t, string(body), "pulse")
}
