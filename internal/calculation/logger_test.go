package calculation

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("target %s unreachable", "250000.00")
	l.Errorf("trial %d failed", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "target 250000.00 unreachable")
	assert.Contains(t, out, "trial 7 failed")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	l := NewSlogLogger(nil)
	assert.NotNil(t, l.L)
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	engine := NewProjectionEngine()
	engine.SetLogger(nil)
	assert.Equal(t, NopLogger{}, engine.Logger)

	mc := NewMonteCarloOrchestrator(engine, nil)
	mc.SetLogger(nil)
	assert.Equal(t, NopLogger{}, mc.Logger)
}
