package people

import (
	"testing"
	"time"
)

func TestPhaseClassification(t *testing.T) {
	cfg := TrackerConfig{
		InputTime:                     3,
		FPSEstTime:                    10,
		DurationInactiveToStopPublish: 2 * time.Second,
		DurationInactiveToRemove:      5 * time.Second,
	}
	base := at(0)

	tests := []struct {
		name         string
		bootstrapped bool
		missingFor   time.Duration // negative means present
		want         TrackPhase
	}{
		{"present without filter", false, -1, TrackNew},
		{"present with filter", true, -1, TrackActive},
		{"just missing", true, 0, TrackMissingPublished},
		{"missing at stop-publish boundary", true, 2 * time.Second, TrackMissingPublished},
		{"missing past stop-publish", true, 2*time.Second + time.Millisecond, TrackMissingSuppressed},
		{"missing at removal boundary", true, 5 * time.Second, TrackMissingSuppressed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTrackRecord(det(1, ClassPerson, 0, 0, base), cfg, base)
			if tt.bootstrapped {
				rec.filter = newVelocityFilter(Position{})
			}
			now := base
			if tt.missingFor >= 0 {
				rec.missingSince = base
				now = base.Add(tt.missingFor)
			}
			if got := rec.PhaseAt(cfg, now); got != tt.want {
				t.Errorf("PhaseAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpiry(t *testing.T) {
	cfg := TrackerConfig{
		InputTime:                     3,
		FPSEstTime:                    10,
		DurationInactiveToStopPublish: 2 * time.Second,
		DurationInactiveToRemove:      5 * time.Second,
	}
	base := at(0)
	rec := newTrackRecord(det(1, ClassPerson, 0, 0, base), cfg, base)

	if rec.expiredAt(cfg, base.Add(time.Hour)) {
		t.Error("a present track never expires")
	}

	rec.missingSince = base
	if rec.expiredAt(cfg, base.Add(5*time.Second)) {
		t.Error("absence equal to the removal threshold must not expire yet")
	}
	if !rec.expiredAt(cfg, base.Add(5*time.Second+time.Millisecond)) {
		t.Error("absence beyond the removal threshold must expire")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := TrackerConfig{
		InputTime:                     3,
		FPSEstTime:                    10,
		DurationInactiveToStopPublish: time.Second,
		DurationInactiveToRemove:      2 * time.Second,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	inverted := valid
	inverted.DurationInactiveToStopPublish = 3 * time.Second
	if err := inverted.Validate(); err == nil {
		t.Error("inverted thresholds must be rejected")
	}

	narrow := valid
	narrow.FPSEstTime = 1
	if err := narrow.Validate(); err == nil {
		t.Error("fps window below 2 must be rejected")
	}

	if err := DefaultTrackerConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}
