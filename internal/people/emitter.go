package people

import "github.com/muratams/cabot/internal/monitoring"

// Emitter consumes one cycle's tracking output. Implementations are expected
// to be non-blocking collaborators: the registry's caller invokes them
// synchronously between cycles. The core never depends on a concrete
// downstream type.
type Emitter interface {
	Emit(out CycleOutput) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(out CycleOutput) error

// Emit calls f.
func (f EmitterFunc) Emit(out CycleOutput) error { return f(out) }

// MultiEmitter fans one cycle output out to several consumers. Every
// emitter is invoked even if an earlier one fails; the first error is
// returned.
type MultiEmitter []Emitter

// Emit delivers out to each wrapped emitter in order.
func (m MultiEmitter) Emit(out CycleOutput) error {
	var firstErr error
	for _, e := range m {
		if err := e.Emit(out); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogEmitter writes a one-line summary of each cycle through the monitoring
// logger.
type LogEmitter struct{}

// Emit logs the cycle summary.
func (LogEmitter) Emit(out CycleOutput) error {
	monitoring.Logf("cycle %s: %d alive, %d published",
		out.BatchTimestamp.Format("15:04:05.000"), len(out.AliveTrackIDs), len(out.Positions))
	return nil
}
