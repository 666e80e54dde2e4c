// Package config loads tracker tuning parameters from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/muratams/cabot/internal/people"
)

// TuningConfig holds optional overrides for the tracker configuration.
// Fields omitted from the JSON file keep their defaults, so partial configs
// are safe. Durations are strings like "200ms" or "2s".
type TuningConfig struct {
	InputTime  *int `json:"input_time,omitempty"`
	FPSEstTime *int `json:"fps_est_time,omitempty"`

	DurationInactiveToStopPublish *string `json:"duration_inactive_to_stop_publish,omitempty"`
	DurationInactiveToRemove      *string `json:"duration_inactive_to_remove,omitempty"`

	// TargetFPS is the expected batch rate, used only by the health
	// endpoint; it does not affect tracking.
	TargetFPS *float64 `json:"target_fps,omitempty"`

	// DisplayUnits selects the speed unit for API and plot surfaces.
	DisplayUnits *string `json:"display_units,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must have
// a .json extension and the file must be under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// Apply overlays the set fields onto base and validates the result.
func (t *TuningConfig) Apply(base people.TrackerConfig) (people.TrackerConfig, error) {
	out := base
	if t.InputTime != nil {
		out.InputTime = *t.InputTime
	}
	if t.FPSEstTime != nil {
		out.FPSEstTime = *t.FPSEstTime
	}
	if t.DurationInactiveToStopPublish != nil {
		d, err := time.ParseDuration(*t.DurationInactiveToStopPublish)
		if err != nil {
			return out, fmt.Errorf("parse duration_inactive_to_stop_publish: %w", err)
		}
		out.DurationInactiveToStopPublish = d
	}
	if t.DurationInactiveToRemove != nil {
		d, err := time.ParseDuration(*t.DurationInactiveToRemove)
		if err != nil {
			return out, fmt.Errorf("parse duration_inactive_to_remove: %w", err)
		}
		out.DurationInactiveToRemove = d
	}
	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("invalid tracker configuration: %w", err)
	}
	return out, nil
}
