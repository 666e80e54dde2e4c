package viz

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/units"
)

// BuildTrackScatter renders the current registry snapshot as an XY scatter
// with the speed mapped to color. Suppressed tracks are included in a
// separate, dimmed series so dropouts are visible while debugging.
func BuildTrackScatter(snaps []people.TrackSnapshot, speedUnits string) *charts.Scatter {
	published := make([]opts.ScatterData, 0, len(snaps))
	suppressed := make([]opts.ScatterData, 0)
	maxSpeed := 0.0

	for _, snap := range snaps {
		speed := units.ConvertSpeed(snap.Velocity.Speed(), speedUnits)
		if speed > maxSpeed {
			maxSpeed = speed
		}
		d := opts.ScatterData{
			Name:  fmt.Sprintf("track %d (%s)", snap.ID, snap.Class),
			Value: []interface{}{snap.Position.X, snap.Position.Y, speed},
		}
		if snap.Phase == people.TrackMissingSuppressed {
			suppressed = append(suppressed, d)
		} else {
			published = append(published, d)
		}
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Tracked people and obstacles",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Track positions",
			Subtitle: fmt.Sprintf("%d published, %d suppressed, speed in %s", len(published), len(suppressed), speedUnits),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
		}),
	)

	scatter.AddSeries("published", published)
	scatter.AddSeries("suppressed", suppressed,
		charts.WithItemStyleOpts(opts.ItemStyle{Opacity: opts.Float(0.4)}))
	return scatter
}
