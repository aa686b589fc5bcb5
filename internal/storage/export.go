package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/flightsim/internal/sim"
)

type ExportData struct {
	Aircraft   string             `json:"aircraft"`
	Integrator string             `json:"integrator"`
	Source     string             `json:"source"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Fields     []string           `json:"fields"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Flight     []sim.FlightData   `json:"flight"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as one JSON document. Angles in Flight are in
// degrees.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Aircraft:   meta.Aircraft,
		Integrator: meta.Integrator,
		Source:     meta.Source,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      result.StepsTaken,
		Fields:     Header()[1:],
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Flight:     make([]sim.FlightData, len(result.States)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = s.Vector()
		data.Flight[i] = sim.Snapshot{State: s}.Flight().Degrees()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
