// Package people implements the multi-target tracking and short-horizon
// prediction core of the people/obstacle pipeline.
//
// Detections arrive in per-cycle batches already carrying stable track
// identities from the upstream detector; this package does not associate
// detections to tracks. For each identity it buffers recent positions,
// maintains a constant-velocity Kalman filter once enough history has
// accumulated, estimates the per-track observation rate to convert filter
// velocity into m/s, bridges brief dropouts by dead-reckoning, and retires
// tracks absent beyond a configured threshold.
//
// The Registry is the sole serialized entry point; emitters and diagnostic
// renderers are external collaborators consuming its per-cycle output.
package people
