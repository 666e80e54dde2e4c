package people

import (
	"sort"
	"sync"
	"time"

	"github.com/muratams/cabot/internal/monitoring"
)

// Registry owns the mapping of all known tracks and is the single serialized
// entry point of the tracking core. One detection batch is processed to
// completion per Ingest call; concurrent producers are serialized by the
// registry's mutex at this boundary rather than around individual field
// mutations.
type Registry struct {
	mu     sync.Mutex
	cfg    TrackerConfig
	tracks map[int]*TrackRecord

	// batchStamps is the registry-level analogue of the per-track frequency
	// window, used only for health reporting.
	batchStamps    *boundedQueue[time.Time]
	batchRate      float64
	lastBatchStamp time.Time
	cycleCount     uint64
}

// NewRegistry creates a registry with the given configuration. The
// configuration is immutable after construction.
func NewRegistry(cfg TrackerConfig) *Registry {
	return &Registry{
		cfg:         cfg,
		tracks:      make(map[int]*TrackRecord),
		batchStamps: newBoundedQueue[time.Time](cfg.FPSEstTime),
	}
}

// Config returns the registry's configuration.
func (reg *Registry) Config() TrackerConfig { return reg.cfg }

// Ingest processes one detection batch: refreshes or creates records for
// present tracks, updates their filters, classifies absentees, dead-reckons
// the briefly missing, and purges tracks absent beyond the removal
// threshold. No input condition is fatal; malformed or out-of-order
// detections degrade to no-ops for the affected fields.
func (reg *Registry) Ingest(batch Batch) CycleOutput {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.cycleCount++
	reg.lastBatchStamp = batch.Timestamp
	reg.batchStamps.Push(batch.Timestamp)
	if rate, ok := estimateFPS(reg.batchStamps); ok {
		reg.batchRate = rate
	}

	out := CycleOutput{
		BatchTimestamp:  batch.Timestamp,
		Positions:       make(map[int]Position),
		Velocities:      make(map[int]Velocity),
		VelocityHistory: make(map[int][]VelocitySample),
	}

	// Refresh records for every tracked detection in batch order.
	var aliveIDs []int
	aliveSet := make(map[int]bool)
	for _, det := range batch.Detections {
		if !det.Class.Tracked() {
			continue
		}

		rec, known := reg.tracks[det.TrackID]
		if !known {
			rec = newTrackRecord(det, reg.cfg, batch.Timestamp)
			reg.tracks[det.TrackID] = rec
		}

		rec.positions.Push(det.Position)
		rec.class = det.Class
		rec.color = det.Color
		rec.lastSeen = batch.Timestamp
		rec.missingSince = time.Time{}

		if !aliveSet[det.TrackID] {
			aliveSet[det.TrackID] = true
			aliveIDs = append(aliveIDs, det.TrackID)
		}

		reg.refreshRate(rec, det, batch.Timestamp)
	}

	// Run the filter for every present track with enough history.
	for _, id := range aliveIDs {
		rec := reg.tracks[id]
		if rec.filter == nil && rec.positions.Len() < reg.cfg.InputTime {
			continue
		}

		if rec.filter == nil {
			// Bootstrap: initialise from the newest observation, then
			// replay the buffered history through the filter.
			last, _ := rec.LastPosition()
			rec.filter = newVelocityFilter(last)
			for _, p := range rec.positions.Items() {
				rec.filter.Predict()
				rec.filter.Update(p)
			}
		} else {
			// Steady state: only the newest observation is consumed.
			last, _ := rec.LastPosition()
			rec.filter.Predict()
			rec.filter.Update(last)
		}

		pos, _ := rec.LastPosition()
		vel := rec.filter.StepVelocity().scale(rec.estimatedFPS)
		out.Positions[id] = pos
		out.Velocities[id] = vel
		rec.velHist.Push(VelocitySample{Timestamp: batch.Timestamp, Velocity: vel})
	}

	// Classify absentees: stamp first absence, purge the expired, and
	// dead-reckon those still within the publish window.
	var reckonedIDs []int
	for id, rec := range reg.tracks {
		if aliveSet[id] {
			continue
		}
		if rec.missingSince.IsZero() {
			rec.missingSince = batch.Timestamp
		}
		if rec.expiredAt(reg.cfg, batch.Timestamp) {
			delete(reg.tracks, id)
			monitoring.Logf("track %d removed after %v of absence", id, batch.Timestamp.Sub(rec.missingSince))
			continue
		}
		if rec.PhaseAt(reg.cfg, batch.Timestamp) != TrackMissingPublished {
			continue
		}
		if rec.filter == nil {
			// Nothing to extrapolate from; the record ages toward removal
			// without ever being published.
			continue
		}
		reckonedIDs = append(reckonedIDs, id)
	}
	sort.Ints(reckonedIDs)

	for _, id := range reckonedIDs {
		rec := reg.tracks[id]
		// Hold the last known position; use the last filter velocity at the
		// last known rate. No forward extrapolation by elapsed time.
		pos, _ := rec.LastPosition()
		out.Positions[id] = pos
		out.Velocities[id] = rec.filter.StepVelocity().scale(rec.estimatedFPS)
	}

	out.AliveTrackIDs = append(aliveIDs, reckonedIDs...)
	for _, id := range out.AliveTrackIDs {
		if hist := reg.tracks[id].VelocityHistory(); len(hist) > 0 {
			out.VelocityHistory[id] = hist
		}
	}

	return out
}

// refreshRate updates the track's timestamp window and frequency estimate
// for one detection. A sample whose timestamp is not strictly newer than the
// newest recorded one is stale: its position has already been enqueued, but
// the window and estimate are left untouched. This also keeps re-delivery
// of an identical batch from double-counting window entries.
func (reg *Registry) refreshRate(rec *TrackRecord, det Detection, batchStamp time.Time) {
	sample := det.Timestamp
	if sample.IsZero() {
		sample = batchStamp
	}
	if rec.stamps.Len() > 0 && !sample.After(rec.stamps.Newest()) {
		return
	}
	rec.stamps.Push(batchStamp)
	if fps, ok := estimateFPS(rec.stamps); ok {
		rec.estimatedFPS = fps
	}
}

// Track returns the record for a track id, or nil if unknown.
func (reg *Registry) Track(id int) *TrackRecord {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.tracks[id]
}

// Len returns the number of records currently retained, including missing
// tracks not yet purged.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.tracks)
}

// TrackSnapshot is a read-only copy of one record's state for diagnostic
// surfaces.
type TrackSnapshot struct {
	ID               int
	Class            ObjectClass
	Color            Color
	Phase            TrackPhase
	Position         Position
	Velocity         Velocity
	EstimatedFPS     float64
	ObservationCount int
	FirstSeen        time.Time
	LastSeen         time.Time
	MissingSince     time.Time
	VelocityHistory  []VelocitySample
}

// Snapshot returns a copy of all retained tracks, classified against the
// most recent batch timestamp, ordered by id.
func (reg *Registry) Snapshot() []TrackSnapshot {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	snaps := make([]TrackSnapshot, 0, len(reg.tracks))
	for _, rec := range reg.tracks {
		snap := TrackSnapshot{
			ID:               rec.id,
			Class:            rec.class,
			Color:            rec.color,
			Phase:            rec.PhaseAt(reg.cfg, reg.lastBatchStamp),
			EstimatedFPS:     rec.estimatedFPS,
			ObservationCount: rec.positions.Len(),
			FirstSeen:        rec.firstSeen,
			LastSeen:         rec.lastSeen,
			MissingSince:     rec.missingSince,
			VelocityHistory:  rec.VelocityHistory(),
		}
		if pos, ok := rec.LastPosition(); ok {
			snap.Position = pos
		}
		if rec.filter != nil {
			snap.Velocity = rec.filter.StepVelocity().scale(rec.estimatedFPS)
		}
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}

// PhaseCounts returns the number of retained tracks per lifecycle phase.
func (reg *Registry) PhaseCounts() map[TrackPhase]int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	counts := make(map[TrackPhase]int)
	for _, rec := range reg.tracks {
		counts[rec.PhaseAt(reg.cfg, reg.lastBatchStamp)]++
	}
	return counts
}

// BatchRate returns the observed batch frequency over the recent window,
// or false if fewer than two batches have been ingested.
func (reg *Registry) BatchRate() (float64, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.batchStamps.Len() < 2 {
		return 0, false
	}
	return reg.batchRate, true
}

// CycleCount returns the number of batches ingested since construction.
func (reg *Registry) CycleCount() uint64 {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.cycleCount
}

// scale converts a per-step velocity into physical units per second.
func (v Velocity) scale(fps float64) Velocity {
	return Velocity{VX: v.VX * fps, VY: v.VY * fps}
}
