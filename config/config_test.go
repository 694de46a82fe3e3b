package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentEnv(t *testing.T) {
	// The embedded current-env file must resolve to a known environment
	assert.Contains(t, []string{CurrentEnvProd, CurrentEnvStaging}, CurrentEnv)
}

func TestDiffers(t *testing.T) {
	d := Differs[string]{
		Staging: "redis://localhost:6379/1",
		Prod:    "redis://localhost:6379/0",
	}

	assert.Equal(t, "redis://localhost:6379/0", d.Production())

	switch CurrentEnv {
	case CurrentEnvProd:
		assert.Equal(t, d.Prod, d.Parse())
	case CurrentEnvStaging:
		assert.Equal(t, d.Staging, d.Parse())
	}
}
