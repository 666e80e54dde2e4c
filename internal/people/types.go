package people

import (
	"math"
	"time"
)

// ObjectClass labels the kind of object a detection refers to. Only person
// and obstacle detections are tracked; anything else is ignored on ingest.
type ObjectClass string

const (
	ClassPerson   ObjectClass = "person"
	ClassObstacle ObjectClass = "obstacle"
	ClassOther    ObjectClass = "other"
)

// Tracked reports whether detections of this class feed the registry.
func (c ObjectClass) Tracked() bool {
	return c == ClassPerson || c == ClassObstacle
}

// Position is a 2D ground-plane position in meters (world frame).
type Position struct {
	X float64
	Y float64
}

// Velocity is a 2D velocity in meters per second (world frame).
type Velocity struct {
	VX float64
	VY float64
}

// Color is an RGB display tag assigned by the upstream detector. It is
// carried through for diagnostic rendering and has no effect on tracking.
type Color struct {
	R float32
	G float32
	B float32
}

// Detection is one observed object in a batch. TrackID is assigned by the
// upstream detector and is stable across batches for the same physical
// object; this package never performs association itself.
type Detection struct {
	TrackID   int
	Class     ObjectClass
	Position  Position
	Z         float64 // height component, buffered but not filtered
	Color     Color
	Timestamp time.Time // capture time for this box
}

// Batch is one cycle's worth of detections sharing a capture timestamp.
type Batch struct {
	Timestamp  time.Time
	Detections []Detection
}

// VelocitySample is one entry of a track's velocity history.
type VelocitySample struct {
	Timestamp time.Time
	Velocity  Velocity
}

// CycleOutput is the per-cycle result handed to emitters. AliveTrackIDs is
// the union of tracks present in the batch and tracks briefly missing but
// still published with dead-reckoned values. Positions and Velocities carry
// entries only for tracks whose filter has bootstrapped.
type CycleOutput struct {
	BatchTimestamp  time.Time
	AliveTrackIDs   []int
	Positions       map[int]Position
	Velocities      map[int]Velocity
	VelocityHistory map[int][]VelocitySample
}

// Speed returns the scalar speed in meters per second.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.VX, v.VY)
}
