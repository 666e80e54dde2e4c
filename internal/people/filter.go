package people

import "gonum.org/v1/gonum/mat"

// Filter tuning constants. The filter runs with a unit time step; the
// per-step velocity it produces is converted to m/s by scaling with the
// track's estimated frame rate, so these do not depend on the sensor rate.
const (
	measurementNoiseVar = 5.0   // R diagonal, per axis
	processNoiseVar     = 0.05  // white-noise variance feeding Q
	initialCovariance   = 500.0 // P0 diagonal, state starts highly uncertain
)

// velocityFilter is a 4-state constant-velocity Kalman filter over the
// ground plane. State vector order is (x, vx, y, vy).
type velocityFilter struct {
	x *mat.Dense // 4x1 state
	p *mat.Dense // 4x4 covariance

	f *mat.Dense // state transition
	h *mat.Dense // measurement matrix, extracts (x, y)
	q *mat.Dense // process noise
	r *mat.Dense // measurement noise
}

// newVelocityFilter creates a filter initialised at pos with zero velocity.
func newVelocityFilter(pos Position) *velocityFilter {
	// x' = x + vx, y' = y + vy with dt = 1 time step.
	f := mat.NewDense(4, 4, []float64{
		1, 1, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 1,
	})
	h := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 0, 1, 0,
	})
	r := mat.NewDense(2, 2, []float64{
		measurementNoiseVar, 0,
		0, measurementNoiseVar,
	})

	// Discretized white-noise process covariance for one (pos, vel) axis
	// pair at dt=1: var * [dt^4/4, dt^3/2; dt^3/2, dt^2], block-diagonal
	// across the two axes.
	qp := processNoiseVar * 0.25
	qc := processNoiseVar * 0.5
	qv := processNoiseVar
	q := mat.NewDense(4, 4, []float64{
		qp, qc, 0, 0,
		qc, qv, 0, 0,
		0, 0, qp, qc,
		0, 0, qc, qv,
	})

	x := mat.NewDense(4, 1, []float64{pos.X, 0, pos.Y, 0})
	p := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		p.Set(i, i, initialCovariance)
	}

	return &velocityFilter{x: x, p: p, f: f, h: h, q: q, r: r}
}

// Predict advances the state one time step: x = Fx, P = FPF' + Q.
func (k *velocityFilter) Predict() {
	var x mat.Dense
	x.Mul(k.f, k.x)

	var fp mat.Dense
	fp.Mul(k.f, k.p)
	var p mat.Dense
	p.Mul(&fp, k.f.T())
	p.Add(&p, k.q)

	k.x = &x
	k.p = &p
}

// Update folds one position measurement into the state. A singular
// innovation covariance leaves the state untouched.
func (k *velocityFilter) Update(pos Position) {
	z := mat.NewDense(2, 1, []float64{pos.X, pos.Y})

	// Innovation y = z - Hx.
	var hx mat.Dense
	hx.Mul(k.h, k.x)
	var y mat.Dense
	y.Sub(z, &hx)

	// S = HPH' + R.
	var ph mat.Dense
	ph.Mul(k.p, k.h.T())
	var s mat.Dense
	s.Mul(k.h, &ph)
	s.Add(&s, k.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return
	}

	// Gain K = PH'S^-1.
	var gain mat.Dense
	gain.Mul(&ph, &sInv)

	// x = x + Ky.
	var ky mat.Dense
	ky.Mul(&gain, &y)
	var xNew mat.Dense
	xNew.Add(k.x, &ky)

	// P = (I - KH)P.
	var kh mat.Dense
	kh.Mul(&gain, k.h)
	ikh := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		ikh.Set(i, i, 1)
	}
	ikh.Sub(ikh, &kh)
	var pNew mat.Dense
	pNew.Mul(ikh, k.p)

	k.x = &xNew
	k.p = &pNew
}

// StepVelocity returns the filter's raw per-step velocity estimate. It must
// be scaled by the track's estimated frame rate to obtain m/s.
func (k *velocityFilter) StepVelocity() Velocity {
	return Velocity{VX: k.x.At(1, 0), VY: k.x.At(3, 0)}
}

// FilteredPosition returns the smoothed position estimate. Published output
// uses the raw observed position instead; this is exposed for diagnostics.
func (k *velocityFilter) FilteredPosition() Position {
	return Position{X: k.x.At(0, 0), Y: k.x.At(2, 0)}
}
