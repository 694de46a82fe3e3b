// Package plans holds the plan catalog offered to users.
//
// The catalog is persisted as plans.json beside the binary and is mutated
// at runtime by admin commands, so all access goes through a Catalog.
package plans

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"vpsbot/types"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

type Catalog struct {
	mu    sync.RWMutex
	path  string
	plans map[string]types.Plan
}

// Default returns the catalog written by `vpsbot setup` when no
// plans.json exists yet.
func Default() map[string]types.Plan {
	return map[string]types.Plan{
		"basic": {
			Name:   "Basic",
			RamMB:  1024,
			CPU:    1,
			DiskGB: 10,
			Price:  100,
		},
		"standard": {
			Name:   "Standard",
			RamMB:  2048,
			CPU:    2,
			DiskGB: 20,
			Price:  180,
		},
		"premium": {
			Name:   "Premium",
			RamMB:  4096,
			CPU:    4,
			DiskGB: 40,
			Price:  320,
		},
	}
}

// Load reads and validates the plan catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("error reading plan catalog: %w", err)
	}

	var plans map[string]types.Plan

	err = json.Unmarshal(f, &plans)

	if err != nil {
		return nil, fmt.Errorf("error parsing plan catalog: %w", err)
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("plan catalog %s is empty", path)
	}

	for id, p := range plans {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid plan %s: %w", id, err)
		}
	}

	return &Catalog{
		path:  path,
		plans: plans,
	}, nil
}

// Get returns the plan with the given ID, if it exists.
func (c *Catalog) Get(id string) (types.Plan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.plans[id]
	return p, ok
}

// Snapshot returns a copy of the catalog safe to hand out.
func (c *Catalog) Snapshot() map[string]types.Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(map[string]types.Plan, len(c.plans))

	for id, p := range c.plans {
		snap[id] = p
	}

	return snap
}

// IDs returns the plan IDs in sorted order for stable display.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.plans))

	for id := range c.plans {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// UpdateResources changes the resource tier of an existing plan and
// persists the catalog. The price is deliberately left untouched.
func (c *Catalog) UpdateResources(id string, ramMB, cpu, diskGB int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.plans[id]

	if !ok {
		return fmt.Errorf("plan %s not found", id)
	}

	p.RamMB = ramMB
	p.CPU = cpu
	p.DiskGB = diskGB

	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid plan update for %s: %w", id, err)
	}

	c.plans[id] = p

	return c.save()
}

// save writes the catalog atomically (temp file + rename) so a crashed
// write never corrupts plans.json.
func (c *Catalog) save() error {
	bytes, err := json.MarshalIndent(c.plans, "", "  ")

	if err != nil {
		return fmt.Errorf("error marshalling plan catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".plans-*.json")

	if err != nil {
		return fmt.Errorf("error creating temp plan catalog: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp plan catalog: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp plan catalog: %w", err)
	}

	return os.Rename(tmp.Name(), c.path)
}
