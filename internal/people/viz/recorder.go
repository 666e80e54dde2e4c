// Package viz renders diagnostic views of tracking output. It is a pure
// consumer of the registry's per-cycle results; the core has no dependency
// on any rendering library.
package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/security"
)

// Recorder accumulates published positions and velocities per track over a
// run and writes trajectory and speed-profile plots on demand. It implements
// people.Emitter so it can be fanned in next to the store.
type Recorder struct {
	mu        sync.Mutex
	paths     map[int]plotter.XYs // track id -> XY trajectory
	speeds    map[int]plotter.XYs // track id -> (seconds since start, speed)
	startTime time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		paths:  make(map[int]plotter.XYs),
		speeds: make(map[int]plotter.XYs),
	}
}

// Emit appends this cycle's published positions and speeds to the recorded
// series.
func (rec *Recorder) Emit(out people.CycleOutput) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.startTime.IsZero() {
		rec.startTime = out.BatchTimestamp
	}
	elapsed := out.BatchTimestamp.Sub(rec.startTime).Seconds()

	for id, pos := range out.Positions {
		rec.paths[id] = append(rec.paths[id], plotter.XY{X: pos.X, Y: pos.Y})
	}
	for id, vel := range out.Velocities {
		rec.speeds[id] = append(rec.speeds[id], plotter.XY{X: elapsed, Y: vel.Speed()})
	}
	return nil
}

// TrackCount returns the number of tracks with recorded samples.
func (rec *Recorder) TrackCount() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.paths)
}

// WritePlots renders one trajectory plot and one speed-profile plot into
// outputDir, creating it if needed.
func (rec *Recorder) WritePlots(outputDir string) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := security.ValidateOutputPath(outputDir); err != nil {
		return fmt.Errorf("plot output dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create plot output dir: %w", err)
	}

	if err := rec.writeTrajectories(filepath.Join(outputDir, "trajectories.png")); err != nil {
		return err
	}
	return rec.writeSpeedProfiles(filepath.Join(outputDir, "speeds.png"))
}

func (rec *Recorder) writeTrajectories(path string) error {
	p := plot.New()
	p.Title.Text = "Track trajectories"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	for _, id := range sortedIDs(rec.paths) {
		line, err := plotter.NewLine(rec.paths[id])
		if err != nil {
			return fmt.Errorf("trajectory line for track %d: %w", id, err)
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("track %d", id), line)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}

func (rec *Recorder) writeSpeedProfiles(path string) error {
	p := plot.New()
	p.Title.Text = "Track speeds"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "speed (m/s)"

	for _, id := range sortedIDs(rec.speeds) {
		line, err := plotter.NewLine(rec.speeds[id])
		if err != nil {
			return fmt.Errorf("speed line for track %d: %w", id, err)
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("track %d", id), line)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save speed plot: %w", err)
	}
	return nil
}

func sortedIDs(m map[int]plotter.XYs) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
