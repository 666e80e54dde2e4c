package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muratams/cabot/internal/people"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTuningConfigPartial(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"input_time": 3, "duration_inactive_to_remove": "5s"}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	applied, err := cfg.Apply(people.DefaultTrackerConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied.InputTime != 3 {
		t.Errorf("InputTime = %d, want 3", applied.InputTime)
	}
	if applied.DurationInactiveToRemove != 5*time.Second {
		t.Errorf("DurationInactiveToRemove = %v, want 5s", applied.DurationInactiveToRemove)
	}
	// Unset fields keep their defaults.
	if applied.FPSEstTime != people.DefaultTrackerConfig().FPSEstTime {
		t.Errorf("FPSEstTime = %d, want default", applied.FPSEstTime)
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", "input_time: 3")
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected rejection of non-.json extension")
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	if _, err := LoadTuningConfig("/does/not/exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyRejectsInvertedThresholds(t *testing.T) {
	stop := "10s"
	remove := "1s"
	cfg := TuningConfig{
		DurationInactiveToStopPublish: &stop,
		DurationInactiveToRemove:      &remove,
	}
	if _, err := cfg.Apply(people.DefaultTrackerConfig()); err == nil {
		t.Error("stop-publish beyond removal threshold must be rejected at load time")
	}
}

func TestApplyRejectsBadDuration(t *testing.T) {
	bad := "soon"
	cfg := TuningConfig{DurationInactiveToRemove: &bad}
	if _, err := cfg.Apply(people.DefaultTrackerConfig()); err == nil {
		t.Error("unparseable duration must be rejected")
	}
}
