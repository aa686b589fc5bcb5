package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

func testResult() *sim.Result {
	a := rigidbody.Level(60, 100)
	b := rigidbody.Level(59.5, 100.25)
	b.Rates = r3.Vec{X: 0.01, Y: -0.02}
	return &sim.Result{
		Times:      []float64{0.0, 0.01},
		States:     []rigidbody.State{a, b},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"energy": 1.5,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := testResult()
	runID, err := st.Save(RunMetadata{Aircraft: "trainer", Dt: 0.01, Duration: 0.01, Integrator: "rk4", Source: "constant"}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Aircraft != "trainer" {
		t.Errorf("expected aircraft 'trainer', got '%s'", meta.Aircraft)
	}
	if meta.Steps != 1 {
		t.Errorf("expected 1 step, got %d", meta.Steps)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if diff := cmp.Diff(result.Times, times); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(result.States, states, cmpopts.EquateApprox(0, 1e-11)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Aircraft: "trainer"}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run IDs collide")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{ID: "fixed"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "fixed" {
		t.Errorf("expected the given id, got %s", runID)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatal("states.csv not created")
	}
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if string(header) != "time,u,v,w,p,q,r,x,y,z,e0,ex,ey,ez" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{Aircraft: "trainer", Dt: 0.01, Duration: 0.01, Integrator: "rk4"}
	if err := ExportJSON(&buf, meta, testResult()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Steps != 1 || len(got.States) != 2 || len(got.Flight) != 2 {
		t.Errorf("unexpected export shape: %+v", got)
	}
	if len(got.Fields) != rigidbody.StateDim {
		t.Errorf("expected %d fields, got %d", rigidbody.StateDim, len(got.Fields))
	}
	if got.Flight[1].Altitude != 100.25 {
		t.Errorf("altitude = %f", got.Flight[1].Altitude)
	}
}
