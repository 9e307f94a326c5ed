package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/trace"
)

func testResult(name string) *sim.Result {
	return &sim.Result{
		Name:       name,
		Looper:     "batch",
		TimestepMs: 16.667,
		Frames:     2,
		DurationMs: 16.667,
		Springs: []sim.SpringResult{{
			ID:     "s0",
			Name:   "knob",
			Config: spring.NewConfig(230.2, 22),
			To:     1,
			Final:  spring.PhysicsState{Position: 1},
			AtRest: true,
			Counts: trace.Counts{Updates: 2},
			Samples: []trace.Sample{
				{Frame: 1, TimeMs: 0, Position: 0.000115, Velocity: 0.23},
				{Frame: 2, TimeMs: 16.667, Position: 1, Velocity: 0},
			},
		}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testResult("default"), map[string]float64{"settle_ms": 16.667})
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
	if meta.Scenario != "default" {
		t.Errorf("expected scenario 'default', got '%s'", meta.Scenario)
	}
	if len(meta.Springs) != 1 || meta.Springs[0].Tension != 230.2 {
		t.Errorf("unexpected springs: %+v", meta.Springs)
	}
	if meta.Metrics["settle_ms"] != 16.667 {
		t.Errorf("expected settle_ms 16.667, got %f", meta.Metrics["settle_ms"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	knob := samples["knob"]
	if len(knob) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(knob))
	}
	if knob[0].Position != 0.000115 || knob[0].Velocity != 0.23 || knob[1].Frame != 2 {
		t.Errorf("samples did not round trip: %+v", knob)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"b", "a"} {
		st.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		if _, err := st.Save(testResult(name), nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scenario != "b" || runs[1].Scenario != "a" {
		t.Errorf("expected oldest first, got %s, %s", runs[0].Scenario, runs[1].Scenario)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected an error for a missing run")
	}
}

func TestStoreExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testResult("default"), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Run.ID != runID {
		t.Errorf("expected run %s, got %s", runID, data.Run.ID)
	}
	if len(data.Samples["knob"]) != 2 {
		t.Errorf("expected 2 samples, got %d", len(data.Samples["knob"]))
	}
}

func TestStoreSaveNonFinite(t *testing.T) {
	st := New(t.TempDir())
	res := testResult("blowup")
	res.Springs[0].Final = spring.PhysicsState{Position: math.NaN(), Velocity: math.Inf(1)}
	res.Springs[0].EnergyRise = math.Inf(1)
	res.Springs[0].Samples[1] = trace.Sample{Frame: 2, TimeMs: 16.667, Position: math.NaN(), Velocity: math.Inf(-1)}

	runID, err := st.Save(res, map[string]float64{"overshoot": math.NaN()})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsNaN(float64(meta.Springs[0].Final)) {
		t.Errorf("expected NaN final, got %v", meta.Springs[0].Final)
	}
	if !math.IsInf(float64(meta.Springs[0].EnergyRise), 1) {
		t.Errorf("expected +Inf energy rise, got %v", meta.Springs[0].EnergyRise)
	}
	if !math.IsNaN(float64(meta.Metrics["overshoot"])) {
		t.Errorf("expected NaN overshoot, got %v", meta.Metrics["overshoot"])
	}
	if meta.Springs[0].Tension != 230.2 {
		t.Errorf("expected finite tension to stay a number, got %v", meta.Springs[0].Tension)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	knob := samples["knob"]
	if len(knob) != 2 || !math.IsNaN(knob[1].Position) || !math.IsInf(knob[1].Velocity, -1) {
		t.Errorf("non-finite samples did not round trip: %+v", knob)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !math.IsNaN(float64(data.Samples["knob"][1].Position)) {
		t.Errorf("expected exported NaN position, got %v", data.Samples["knob"][1].Position)
	}
}

func TestStoreSaveFailureRemovesRunDir(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	st.now = func() time.Time { return time.Unix(0, 42) }

	// A directory in place of samples.csv makes the second write fail.
	runDir := filepath.Join(tmpDir, "stuck_42")
	if err := os.MkdirAll(filepath.Join(runDir, "samples.csv"), 0755); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save(testResult("stuck"), nil)
	if err == nil {
		t.Fatal("expected save to fail")
	}
	if runID != "" {
		t.Errorf("expected empty run id, got %q", runID)
	}
	if _, err := os.Stat(runDir); !os.IsNotExist(err) {
		t.Errorf("expected run dir to be removed, stat err: %v", err)
	}
}

func TestFloatJSON(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{math.NaN(), `"NaN"`},
		{math.Inf(1), `"+Inf"`},
		{math.Inf(-1), `"-Inf"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(Float(tt.in))
		if err != nil {
			t.Fatalf("marshal %v failed: %v", tt.in, err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal %v: expected %s, got %s", tt.in, tt.want, data)
		}

		var back Float
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s failed: %v", data, err)
		}
		if math.IsNaN(tt.in) {
			if !math.IsNaN(float64(back)) {
				t.Errorf("expected NaN back, got %v", back)
			}
		} else if float64(back) != tt.in {
			t.Errorf("expected %v back, got %v", tt.in, back)
		}
	}
}
