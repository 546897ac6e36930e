package battito_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	Mo "github.com/maroda/battito/obvy"
)

func TestStatsInternal_RecordTick(t *testing.T) {
	s := Mo.NewStatsInternal()

	s.RecordTick("Good Signal")
	s.RecordTick("Good Signal")
	s.RecordTick("Analyzing...")

	if got := testutil.ToFloat64(s.Ticks); got != 3 {
		t.Errorf("got %v ticks, want 3", got)
	}
	if got := testutil.ToFloat64(s.Verdicts.WithLabelValues("Good Signal")); got != 2 {
		t.Errorf("got %v Good Signal verdicts, want 2", got)
	}
}

func TestStatsInternal_RecordLock(t *testing.T) {
	s := Mo.NewStatsInternal()

	s.RecordLock(72, true)
	if got := testutil.ToFloat64(s.LockedBPM); got != 72 {
		t.Errorf("got locked BPM gauge %v, want 72", got)
	}
	if got := testutil.ToFloat64(s.LockActive); got != 1 {
		t.Errorf("got lock active gauge %v, want 1", got)
	}

	s.RecordLock(0, false)
	if got := testutil.ToFloat64(s.LockedBPM); got != 0 {
		t.Errorf("got locked BPM gauge %v, want 0", got)
	}
	if got := testutil.ToFloat64(s.LockActive); got != 0 {
		t.Errorf("got lock active gauge %v, want 0", got)
	}
}

func TestStatsInternal_Handler(t *testing.T) {
	s := Mo.NewStatsInternal()
	s.RecWWW("200", "GET")

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read body: %v", err)
	}
	if !strings.Contains(string(body), "battito_http_requests_total") {
		t.Error("metrics output is missing battito_http_requests_total")
	}
}
