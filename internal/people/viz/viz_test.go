package viz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/units"
)

func cycle(seconds float64, id int, x, y, vx, vy float64) people.CycleOutput {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return people.CycleOutput{
		BatchTimestamp: base.Add(time.Duration(seconds * float64(time.Second))),
		AliveTrackIDs:  []int{id},
		Positions:      map[int]people.Position{id: {X: x, Y: y}},
		Velocities:     map[int]people.Velocity{id: {VX: vx, VY: vy}},
	}
}

func TestRecorderAccumulates(t *testing.T) {
	rec := NewRecorder()

	for i := 0; i < 5; i++ {
		if err := rec.Emit(cycle(float64(i), 1, float64(i), 0, 1, 0)); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
	if err := rec.Emit(cycle(5, 2, 0, 0, 0, 0)); err != nil {
		t.Fatalf("emit: %v", err)
	}

	if rec.TrackCount() != 2 {
		t.Errorf("TrackCount() = %d, want 2", rec.TrackCount())
	}
	if len(rec.paths[1]) != 5 {
		t.Errorf("track 1 has %d path points, want 5", len(rec.paths[1]))
	}
	if rec.speeds[1][0].X != 0 || rec.speeds[1][4].X != 4 {
		t.Error("speed samples must be timestamped relative to the first cycle")
	}
}

func TestRecorderWritePlots(t *testing.T) {
	rec := NewRecorder()
	for i := 0; i < 10; i++ {
		rec.Emit(cycle(float64(i), 1, float64(i), float64(i)/2, 1, 0.5))
	}

	dir := filepath.Join(t.TempDir(), "plots")
	if err := rec.WritePlots(dir); err != nil {
		t.Fatalf("WritePlots: %v", err)
	}

	for _, name := range []string{"trajectories.png", "speeds.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestBuildTrackScatter(t *testing.T) {
	snaps := []people.TrackSnapshot{
		{ID: 1, Class: people.ClassPerson, Phase: people.TrackActive,
			Position: people.Position{X: 1, Y: 2}, Velocity: people.Velocity{VX: 1}},
		{ID: 2, Class: people.ClassObstacle, Phase: people.TrackMissingSuppressed,
			Position: people.Position{X: 3, Y: 4}},
	}

	scatter := BuildTrackScatter(snaps, units.MPS)
	if scatter == nil {
		t.Fatal("expected a chart")
	}
	if len(scatter.MultiSeries) != 2 {
		t.Fatalf("chart has %d series, want published and suppressed", len(scatter.MultiSeries))
	}
	if scatter.MultiSeries[0].Name != "published" || scatter.MultiSeries[1].Name != "suppressed" {
		t.Errorf("series names = %q, %q", scatter.MultiSeries[0].Name, scatter.MultiSeries[1].Name)
	}
}
