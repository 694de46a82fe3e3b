package plans

import (
	"os"
	"path/filepath"
	"testing"

	"vpsbot/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, plans map[string]types.Plan) string {
	t.Helper()

	bytes, err := json.Marshal(plans)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, bytes, 0644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, Default())

	c, err := Load(path)
	require.NoError(t, err)

	p, ok := c.Get("basic")
	assert.True(t, ok)
	assert.Equal(t, "Basic", p.Name)
	assert.Equal(t, 1024, p.RamMB)

	_, ok = c.Get("nonexistent")
	assert.False(t, ok)

	assert.Equal(t, []string{"basic", "premium", "standard"}, c.IDs())
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	path := writeCatalog(t, map[string]types.Plan{
		"bad": {
			Name:   "Bad",
			RamMB:  -1,
			CPU:    1,
			DiskGB: 10,
			Price:  5,
		},
	})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := writeCatalog(t, map[string]types.Plan{
		"unnamed": {
			RamMB:  512,
			CPU:    1,
			DiskGB: 5,
			Price:  10,
		},
	})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := writeCatalog(t, map[string]types.Plan{})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestUpdateResourcesPersists(t *testing.T) {
	path := writeCatalog(t, Default())

	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, c.UpdateResources("basic", 2048, 2, 25))

	p, _ := c.Get("basic")
	assert.Equal(t, 2048, p.RamMB)
	assert.Equal(t, 2, p.CPU)
	assert.Equal(t, 25, p.DiskGB)
	assert.Equal(t, int64(100), p.Price, "price must survive a resource update")

	// Reload from disk to prove the update was persisted
	c2, err := Load(path)
	require.NoError(t, err)

	p2, _ := c2.Get("basic")
	assert.Equal(t, p, p2)
}

func TestUpdateResourcesUnknownPlan(t *testing.T) {
	path := writeCatalog(t, Default())

	c, err := Load(path)
	require.NoError(t, err)

	assert.Error(t, c.UpdateResources("turbo", 1024, 1, 10))
}

func TestUpdateResourcesRejectsNegative(t *testing.T) {
	path := writeCatalog(t, Default())

	c, err := Load(path)
	require.NoError(t, err)

	assert.Error(t, c.UpdateResources("basic", -512, 1, 10))

	// Catalog must be unchanged on disk after a rejected update
	c2, err := Load(path)
	require.NoError(t, err)

	p, _ := c2.Get("basic")
	assert.Equal(t, 1024, p.RamMB)
}
