package people

import (
	"errors"
	"strings"
	"testing"

	"github.com/muratams/cabot/internal/monitoring"
)

func TestMultiEmitterFansOutAndReturnsFirstError(t *testing.T) {
	var calls []string
	failure := errors.New("sink unavailable")

	m := MultiEmitter{
		EmitterFunc(func(CycleOutput) error {
			calls = append(calls, "first")
			return nil
		}),
		EmitterFunc(func(CycleOutput) error {
			calls = append(calls, "second")
			return failure
		}),
		EmitterFunc(func(CycleOutput) error {
			calls = append(calls, "third")
			return nil
		}),
	}

	err := m.Emit(CycleOutput{})
	if !errors.Is(err, failure) {
		t.Errorf("Emit() error = %v, want %v", err, failure)
	}
	if len(calls) != 3 {
		t.Errorf("emitters called = %v, want all three despite the failure", calls)
	}
}

func TestLogEmitter(t *testing.T) {
	defer monitoring.SetLogger(nil)

	var logged string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = format
	})

	out := CycleOutput{
		BatchTimestamp: at(0),
		AliveTrackIDs:  []int{1, 2},
		Positions:      map[int]Position{1: {}},
	}
	if err := (LogEmitter{}).Emit(out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(logged, "alive") {
		t.Errorf("log line %q missing cycle summary", logged)
	}
}
