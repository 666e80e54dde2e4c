package people

import "time"

// TrackPhase represents the lifecycle state of a track. Removal is not a
// phase: a removed track no longer exists in the registry, and a later
// detection with the same id starts a brand-new record.
type TrackPhase string

const (
	// TrackNew is a record still buffering positions; no filter exists yet.
	TrackNew TrackPhase = "new"
	// TrackActive is present in the current batch with a maintained filter.
	TrackActive TrackPhase = "active"
	// TrackMissingPublished is absent but still emitted with dead-reckoned
	// values.
	TrackMissingPublished TrackPhase = "missing_published"
	// TrackMissingSuppressed is absent long enough to be withheld from
	// output while its state is retained in case it reappears.
	TrackMissingSuppressed TrackPhase = "missing_suppressed"
)

// PhaseAt classifies the record against cfg at the given batch timestamp.
// The suppressed phase covers absence in (stop_publish, remove]; beyond the
// removal threshold the registry purges the record, so callers observing a
// record always get one of the four phases.
func (r *TrackRecord) PhaseAt(cfg TrackerConfig, now time.Time) TrackPhase {
	if r.missingSince.IsZero() {
		if !r.Bootstrapped() {
			return TrackNew
		}
		return TrackActive
	}
	if now.Sub(r.missingSince) > cfg.DurationInactiveToStopPublish {
		return TrackMissingSuppressed
	}
	return TrackMissingPublished
}

// expiredAt reports whether absence has exceeded the removal threshold.
func (r *TrackRecord) expiredAt(cfg TrackerConfig, now time.Time) bool {
	if r.missingSince.IsZero() {
		return false
	}
	return now.Sub(r.missingSince) > cfg.DurationInactiveToRemove
}
