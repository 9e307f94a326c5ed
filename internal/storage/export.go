package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/springsim/internal/trace"
)

type ExportSample struct {
	Frame    int   `json:"frame"`
	TimeMs   Float `json:"time_ms"`
	Position Float `json:"position"`
	Velocity Float `json:"velocity"`
}

type ExportData struct {
	Run     RunMetadata               `json:"run"`
	Samples map[string][]ExportSample `json:"samples"`
}

// ExportJSON writes a stored run, metadata and samples, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Samples: exportSamples(samples)})
}

func exportSamples(in map[string][]trace.Sample) map[string][]ExportSample {
	out := make(map[string][]ExportSample, len(in))
	for name, samples := range in {
		conv := make([]ExportSample, len(samples))
		for i, s := range samples {
			conv[i] = ExportSample{
				Frame:    s.Frame,
				TimeMs:   Float(s.TimeMs),
				Position: Float(s.Position),
				Velocity: Float(s.Velocity),
			}
		}
		out[name] = conv
	}
	return out
}
