package people

import (
	"testing"
	"time"
)

func stampWindow(capacity int, stamps ...time.Time) *boundedQueue[time.Time] {
	q := newBoundedQueue[time.Time](capacity)
	for _, s := range stamps {
		q.Push(s)
	}
	return q
}

func TestEstimateFPSExact(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Four samples at exactly 1 Hz: (4-1)/3s = 1.0.
	w := stampWindow(4, base, base.Add(time.Second), base.Add(2*time.Second), base.Add(3*time.Second))

	fps, ok := estimateFPS(w)
	if !ok {
		t.Fatal("expected an estimate from a full window")
	}
	if fps != 1.0 {
		t.Errorf("fps = %v, want exactly 1.0", fps)
	}
}

func TestEstimateFPSHigherRate(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := stampWindow(10, base, base.Add(100*time.Millisecond), base.Add(200*time.Millisecond))

	fps, ok := estimateFPS(w)
	if !ok {
		t.Fatal("expected an estimate")
	}
	if diff := fps - 10.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("fps = %v, want 10.0", fps)
	}
}

func TestEstimateFPSInsufficientSamples(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, ok := estimateFPS(stampWindow(4)); ok {
		t.Error("empty window must withhold the estimate")
	}
	if _, ok := estimateFPS(stampWindow(4, base)); ok {
		t.Error("single-sample window must withhold the estimate")
	}
}

func TestEstimateFPSZeroElapsed(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := stampWindow(4, base, base)

	if _, ok := estimateFPS(w); ok {
		t.Error("zero elapsed time must withhold the estimate, not divide by zero")
	}
}
