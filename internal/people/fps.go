package people

import "time"

// estimateFPS computes the observed update frequency from a window of
// observation timestamps. It returns false when the window holds fewer than
// two samples or spans zero time; the caller keeps its previous estimate in
// that case rather than propagating a division by zero.
func estimateFPS(window *boundedQueue[time.Time]) (float64, bool) {
	n := window.Len()
	if n < 2 {
		return 0, false
	}
	elapsed := window.Newest().Sub(window.Oldest())
	if elapsed <= 0 {
		return 0, false
	}
	return float64(n-1) / elapsed.Seconds(), true
}
