package people

import (
	"fmt"
	"time"
)

// TrackerConfig holds configuration parameters for the track registry.
// The stop-publish threshold must not exceed the removal threshold; this is
// a setup-time invariant validated by the caller (see Validate), not
// re-checked on every cycle.
type TrackerConfig struct {
	InputTime  int // observations buffered before the filter bootstraps
	FPSEstTime int // window size for frequency estimation and velocity history

	DurationInactiveToStopPublish time.Duration // absence beyond this stops publishing
	DurationInactiveToRemove      time.Duration // absence beyond this purges the track
}

// DefaultTrackerConfig returns the configuration used by the robot pipeline.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		InputTime:                     5,
		FPSEstTime:                    10,
		DurationInactiveToStopPublish: 200 * time.Millisecond,
		DurationInactiveToRemove:      2 * time.Second,
	}
}

// Validate checks that the configuration is usable. The registry itself
// never calls this; inverted thresholds merely collapse the published-while-
// missing window to zero width rather than breaking the cycle loop.
func (c TrackerConfig) Validate() error {
	if c.InputTime < 1 {
		return fmt.Errorf("input_time must be >= 1, got %d", c.InputTime)
	}
	if c.FPSEstTime < 2 {
		return fmt.Errorf("fps_est_time must be >= 2, got %d", c.FPSEstTime)
	}
	if c.DurationInactiveToStopPublish < 0 {
		return fmt.Errorf("duration_inactive_to_stop_publish must be >= 0, got %v", c.DurationInactiveToStopPublish)
	}
	if c.DurationInactiveToRemove < c.DurationInactiveToStopPublish {
		return fmt.Errorf("duration_inactive_to_remove (%v) must be >= duration_inactive_to_stop_publish (%v)",
			c.DurationInactiveToRemove, c.DurationInactiveToStopPublish)
	}
	return nil
}
