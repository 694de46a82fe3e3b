package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vpsbot/plans"
	"vpsbot/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOptions(t *testing.T) Options {
	t.Helper()

	dir := t.TempDir()

	return Options{
		Dir:      dir,
		UnitPath: filepath.Join(dir, "vpsbot.service"),
		ExecPath: "/opt/vpsbot/vpsbot",
	}
}

func TestRunCreatesArtifacts(t *testing.T) {
	opts := testOptions(t)

	report, err := Run(opts, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, report.PlansCreated)
	assert.True(t, report.UnitCreated)

	// plans.json must parse with the documented fields, all non-negative
	bytes, err := os.ReadFile(report.PlansPath)
	require.NoError(t, err)

	var catalog map[string]types.Plan
	require.NoError(t, json.Unmarshal(bytes, &catalog))
	assert.Equal(t, plans.Default(), catalog)

	for id, p := range catalog {
		assert.NotEmpty(t, p.Name, "plan %s must have a name", id)
		assert.GreaterOrEqual(t, p.RamMB, 0)
		assert.GreaterOrEqual(t, p.CPU, 0)
		assert.GreaterOrEqual(t, p.DiskGB, 0)
		assert.GreaterOrEqual(t, p.Price, int64(0))
	}

	// The written catalog must also pass the loader's validation
	_, err = plans.Load(report.PlansPath)
	assert.NoError(t, err)

	unit, err := os.ReadFile(opts.UnitPath)
	require.NoError(t, err)

	assert.Contains(t, string(unit), "WorkingDirectory="+opts.Dir)
	assert.Contains(t, string(unit), "ExecStart="+opts.ExecPath+" bot")
	assert.Contains(t, string(unit), "Restart=always")
	assert.Contains(t, string(unit), "RestartSec=5")
}

func TestRunIsIdempotent(t *testing.T) {
	opts := testOptions(t)

	report, err := Run(opts, zap.NewNop())
	require.NoError(t, err)
	require.True(t, report.PlansCreated)

	plansBefore, err := os.ReadFile(report.PlansPath)
	require.NoError(t, err)

	unitBefore, err := os.ReadFile(opts.UnitPath)
	require.NoError(t, err)

	report2, err := Run(opts, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, report2.PlansCreated)
	assert.False(t, report2.UnitCreated)

	plansAfter, err := os.ReadFile(report.PlansPath)
	require.NoError(t, err)

	unitAfter, err := os.ReadFile(opts.UnitPath)
	require.NoError(t, err)

	assert.Equal(t, plansBefore, plansAfter, "second run must not touch plans.json")
	assert.Equal(t, unitBefore, unitAfter, "second run must not touch the unit file")
}

func TestRunPreservesEditedPlans(t *testing.T) {
	opts := testOptions(t)

	plansPath := filepath.Join(opts.Dir, "plans.json")
	custom := `{"tiny":{"name":"Tiny","ram_mb":256,"cpu":1,"disk_gb":5,"price":10}}`
	require.NoError(t, os.WriteFile(plansPath, []byte(custom), 0644))

	report, err := Run(opts, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, report.PlansCreated)

	after, err := os.ReadFile(plansPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(after))
}

func TestUnitReferencesNoStrayPlaceholders(t *testing.T) {
	opts := testOptions(t)

	_, err := Run(opts, zap.NewNop())
	require.NoError(t, err)

	unit, err := os.ReadFile(opts.UnitPath)
	require.NoError(t, err)

	assert.False(t, strings.Contains(string(unit), "%s"))
}
