package report

import (
	"strings"
	"testing"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/randstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigTable(t *testing.T) {
	cfg := config.DefaultConfig()
	out := ConfigTable(cfg)

	assert.Contains(t, out, "Parameter")
	assert.Contains(t, out, "hierarchical-test-case")
	assert.Contains(t, out, "(0.5, 1.5)")
	assert.Contains(t, out, "random")
	assert.NotContains(t, out, "Inflation factor")

	seed := int64(99)
	cfg.Generator.Seed = &seed
	cfg.Generator.Unschedulable = true
	out = ConfigTable(cfg)
	assert.Contains(t, out, "99")
	assert.Contains(t, out, "Inflation factor")
}

func TestSummaryTables(t *testing.T) {
	cfg := config.DefaultGeneratorConfig()
	cfg.Unschedulable = true
	cfg.SporadicRatio = 0.3
	res, err := generator.Generate(&cfg, randstream.New(3))
	require.NoError(t, err)

	summary := SummaryTable(res)
	for _, c := range res.System.Components {
		assert.Contains(t, summary, c.ID)
	}
	assert.Equal(t, 1, strings.Count(summary, "inflated"))

	cores := CoreTable(res)
	for _, c := range res.System.Cores {
		assert.Contains(t, cores, c.ID)
	}
	assert.Contains(t, cores, "Load after")
}
