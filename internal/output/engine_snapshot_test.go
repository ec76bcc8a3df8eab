package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
)

// TestEngineSnapshot renders the example plan twice and requires identical bytes.
func TestEngineSnapshot(t *testing.T) {
	plan := config.NewInputParser().CreateExamplePlan()
	render := func() []byte {
		res, err := calculation.NewProjectionEngine().RunProjection(context.Background(), plan, nil)
		if err != nil {
			t.Fatalf("run projection: %v", err)
		}
		out, err := ConsoleFormatter{}.Format(&Report{Plan: plan, Result: res})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		return out
	}
	first, second := render(), render()
	if !bytes.Equal(first, second) {
		t.Fatalf("console output is not deterministic")
	}

	goldenPath := filepath.Join("testdata", "full", "example_console.full.golden")
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	if update {
		if err := os.WriteFile(goldenPath, first, 0644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if string(golden) == "(placeholder will be auto-updated with UPDATE_GOLDEN)\n" && !update {
		t.Skip("placeholder golden present; run with UPDATE_GOLDEN=1 to create initial snapshot")
	}
	if string(golden) != string(first) {
		t.Fatalf("engine snapshot drift; run UPDATE_GOLDEN=1 to accept\n--- have ---\n%s\n--- want ---\n%s", truncate(string(first), 400), truncate(string(golden), 400))
	}
}
