package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertOrigami(t *testing.T) {
	out, err := execute(t, "convert", "--tension", "40", "--friction", "7")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(out, "tension: 230.2000") || !strings.Contains(out, "friction: 22.0000") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConvertRejectsMixedInputs(t *testing.T) {
	if _, err := execute(t, "convert", "--tension", "40", "--speed", "3"); err == nil {
		t.Error("expected an error for mixed parameters")
	}
	if _, err := execute(t, "convert", "--tension", "40"); err == nil {
		t.Error("expected an error for a missing friction")
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, name := range []string{"default", "slider", "wobbly"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing preset %s in:\n%s", name, out)
		}
	}
}

func TestRunListAnalyze(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "run", "stiff", "--looper", "step", "--data", dir, "--log-level", "error")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "saved: stiff_") {
		t.Fatalf("expected a saved run, got:\n%s", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one run directory, got %v (%v)", entries, err)
	}
	runID := entries[0].Name()
	if _, err := os.Stat(filepath.Join(dir, runID, "samples.csv")); err != nil {
		t.Errorf("expected samples.csv: %v", err)
	}

	out, err = execute(t, "list", "--data", dir)
	if err != nil || !strings.Contains(out, runID) {
		t.Errorf("expected %s in list output (%v):\n%s", runID, err, out)
	}

	out, err = execute(t, "analyze", runID, "--data", dir)
	if err != nil || !strings.Contains(out, "ZETA") {
		t.Errorf("analyze failed (%v):\n%s", err, out)
	}

	out, err = execute(t, "export-json", runID, "--data", dir)
	if err != nil || !strings.Contains(out, `"scenario": "stiff"`) {
		t.Errorf("export-json failed (%v):\n%s", err, out)
	}
}

func TestRunUnknownPreset(t *testing.T) {
	if _, err := execute(t, "run", "nope", "--no-save"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestCompare(t *testing.T) {
	out, err := execute(t, "compare", "default")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "max deviation") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
