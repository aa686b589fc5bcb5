package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/flightsim/internal/control"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cruise")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Initial.Airspeed != 60 {
		t.Errorf("expected airspeed 60, got %f", cfg.Initial.Airspeed)
	}

	// presets are copied out
	cfg.Inputs[3] = 1
	if Presets["cruise"].Inputs[3] == 1 {
		t.Error("GetPreset returned shared inputs")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"bank_hold", "climb", "cruise", "pitch_doublet", "pitch_hold"}
	if diff := cmp.Diff(want, ListPresets()); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	want := GetPreset("pitch_doublet")
	want.Telemetry.SQLite = "telemetry.db"

	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "aircraft: a.yaml\nthrottle: 1\n",
		"zero dt":           "dt: 0\n",
		"negative duration": "duration: -1\n",
		"unknown source":    "source: joystick\n",
		"scenario missing":  "source: scenario\n",
		"negative density":  "atmosphere: {density: -1}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.yaml")
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	doc := "inputs: {1: -0.2, 3: 0.7}\ninitial: {airspeed: 40, altitude: 100}\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(control.Inputs{1: -0.2, 3: 0.7}, cfg.Inputs); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected default dt, got %f", cfg.Dt)
	}
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Initial = InitialConfig{Airspeed: 50, Altitude: 300, Alpha: 5, Heading: 90, Q: 10}
	s := cfg.InitialState()

	if math.Abs(s.Airspeed()-50) > 1e-12 {
		t.Errorf("airspeed = %f", s.Airspeed())
	}
	if math.Abs(s.Alpha()-5*math.Pi/180) > 1e-12 {
		t.Errorf("alpha = %f", s.Alpha())
	}
	if s.Altitude() != 300 {
		t.Errorf("altitude = %f", s.Altitude())
	}
	e := s.Euler()
	if math.Abs(e.Pitch-5*math.Pi/180) > 1e-12 || math.Abs(e.Yaw-math.Pi/2) > 1e-12 {
		t.Errorf("attitude = %+v", e)
	}
	// level flight path: no vertical inertial velocity
	if math.Abs(s.InertialVelocity().Z) > 1e-12 {
		t.Errorf("climb rate = %f", -s.InertialVelocity().Z)
	}
	if math.Abs(s.Rates.Y-10*math.Pi/180) > 1e-15 {
		t.Errorf("q = %f", s.Rates.Y)
	}
}
