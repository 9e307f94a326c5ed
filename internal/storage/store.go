package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/trace"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SpringMetadata struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Tension    Float  `json:"tension"`
	Friction   Float  `json:"friction"`
	From       Float  `json:"from"`
	To         Float  `json:"to"`
	Final      Float  `json:"final"`
	AtRest     bool   `json:"at_rest"`
	Updates    int    `json:"updates"`
	EnergyRise Float  `json:"energy_rise"`
}

type RunMetadata struct {
	ID         string           `json:"id"`
	Scenario   string           `json:"scenario"`
	Timestamp  time.Time        `json:"timestamp"`
	Looper     string           `json:"looper"`
	TimestepMs Float            `json:"timestep_ms"`
	Frames     int              `json:"frames"`
	DurationMs Float            `json:"duration_ms"`
	Springs    []SpringMetadata `json:"springs"`
	Metrics    map[string]Float `json:"metrics,omitempty"`
}

// Save writes metadata.json and samples.csv under a new run directory and
// returns the run id. The directory is removed again if either write fails.
func (s *Store) Save(result *sim.Result, metrics map[string]float64) (runID string, err error) {
	ts := s.now()
	runID = fmt.Sprintf("%s_%d", result.Name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	meta := RunMetadata{
		ID:         runID,
		Scenario:   result.Name,
		Timestamp:  ts,
		Looper:     result.Looper,
		TimestepMs: Float(result.TimestepMs),
		Frames:     result.Frames,
		DurationMs: Float(result.DurationMs),
		Springs:    make([]SpringMetadata, len(result.Springs)),
		Metrics:    floatMap(metrics),
	}
	for i, sp := range result.Springs {
		meta.Springs[i] = SpringMetadata{
			ID:         sp.ID,
			Name:       sp.Name,
			Tension:    Float(sp.Config.Tension),
			Friction:   Float(sp.Config.Friction),
			From:       Float(sp.From),
			To:         Float(sp.To),
			Final:      Float(sp.Final.Position),
			AtRest:     sp.AtRest,
			Updates:    sp.Counts.Updates,
			EnergyRise: Float(sp.EnergyRise),
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, "samples.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"spring", "frame", "time_ms", "position", "velocity"}); err != nil {
		return err
	}
	for _, sp := range result.Springs {
		for _, smp := range sp.Samples {
			row := []string{
				sp.Name,
				strconv.Itoa(smp.Frame),
				strconv.FormatFloat(smp.TimeMs, 'f', 6, 64),
				strconv.FormatFloat(smp.Position, 'g', -1, 64),
				strconv.FormatFloat(smp.Velocity, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads the samples of a run keyed by spring name.
func (s *Store) LoadSamples(runID string) (map[string][]trace.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]trace.Sample)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 5 {
			continue
		}
		frame, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		vals := make([]float64, 3)
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+2], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out[record[0]] = append(out[record[0]], trace.Sample{
			Frame:    frame,
			TimeMs:   vals[0],
			Position: vals[1],
			Velocity: vals[2],
		})
	}
	return out, nil
}
