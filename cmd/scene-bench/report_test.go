package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/meshfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration:   time.Second,
		Variant:    "character",
		TPS:        60,
		FinalState: "InGame",
		Bodies:     4,
		Character:  "[1.50 1.00 1.00]",
		Systems:    []ecs.SystemStats{{Name: "ControllerSystem", ExecutionCount: 59, SkipCount: 1}},
	}

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "**Variant:** character")
	assert.Contains(t, out.String(), "**Final State:** InGame")
	assert.Contains(t, out.String(), "**Character Position:** [1.50 1.00 1.00]")
	assert.Contains(t, out.String(), "| ControllerSystem | 59 | 1 |")
	assert.NotContains(t, out.String(), "GC Pause")
}
