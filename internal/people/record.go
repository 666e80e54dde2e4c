package people

import "time"

// TrackRecord holds all per-identity state owned by the registry: the
// position queue that bootstraps the filter, the filter itself once enough
// history has accumulated, the timestamp window for frequency estimation,
// and the absence bookkeeping that drives the lifecycle policy.
type TrackRecord struct {
	id    int
	class ObjectClass
	color Color

	positions *boundedQueue[Position]
	stamps    *boundedQueue[time.Time]
	velHist   *boundedQueue[VelocitySample]

	filter       *velocityFilter
	estimatedFPS float64

	firstSeen    time.Time
	lastSeen     time.Time
	missingSince time.Time // zero while the track appears in the current batch
}

func newTrackRecord(det Detection, cfg TrackerConfig, batchStamp time.Time) *TrackRecord {
	return &TrackRecord{
		id:        det.TrackID,
		class:     det.Class,
		color:     det.Color,
		positions: newBoundedQueue[Position](cfg.InputTime),
		stamps:    newBoundedQueue[time.Time](cfg.FPSEstTime),
		velHist:   newBoundedQueue[VelocitySample](cfg.FPSEstTime),
		firstSeen: batchStamp,
		lastSeen:  batchStamp,
	}
}

// ID returns the externally assigned track identity.
func (r *TrackRecord) ID() int { return r.id }

// Class returns the object class from the most recent detection.
func (r *TrackRecord) Class() ObjectClass { return r.class }

// Color returns the display tag from the most recent detection.
func (r *TrackRecord) Color() Color { return r.color }

// Bootstrapped reports whether the kinematic filter has been initialised.
func (r *TrackRecord) Bootstrapped() bool { return r.filter != nil }

// EstimatedFPS returns the most recent per-track frequency estimate, or
// zero if one has never been computed.
func (r *TrackRecord) EstimatedFPS() float64 { return r.estimatedFPS }

// LastPosition returns the newest raw observed position.
func (r *TrackRecord) LastPosition() (Position, bool) {
	if r.positions.Len() == 0 {
		return Position{}, false
	}
	return r.positions.Newest(), true
}

// Missing reports whether the track was absent from the most recent batch,
// along with the batch timestamp at which absence began.
func (r *TrackRecord) Missing() (time.Time, bool) {
	return r.missingSince, !r.missingSince.IsZero()
}

// ObservationCount returns the number of positions currently buffered.
func (r *TrackRecord) ObservationCount() int { return r.positions.Len() }

// VelocityHistory returns a copy of the buffered velocity samples, oldest
// first.
func (r *TrackRecord) VelocityHistory() []VelocitySample {
	return r.velHist.Items()
}

// FirstSeen returns the batch timestamp that created this record.
func (r *TrackRecord) FirstSeen() time.Time { return r.firstSeen }

// LastSeen returns the batch timestamp of the most recent observation.
func (r *TrackRecord) LastSeen() time.Time { return r.lastSeen }
