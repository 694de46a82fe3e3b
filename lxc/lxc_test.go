package lxc

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeRunner(t *testing.T) *Runner {
	t.Helper()

	return &Runner{
		Path:           filepath.Join(t.TempDir(), "lxc-does-not-exist"),
		FakeMode:       true,
		DefaultImage:   "images:ubuntu/22.04",
		DefaultProfile: "default",
		Timeout:        time.Second,
		Logger:         zap.NewNop(),
	}
}

func TestFakedDetection(t *testing.T) {
	r := fakeRunner(t)
	assert.True(t, r.Faked())

	r.FakeMode = false
	assert.False(t, r.Faked(), "fake mode must be opt-in even when the binary is missing")
}

func TestRunFakeMode(t *testing.T) {
	r := fakeRunner(t)

	res, err := r.Run(context.Background(), "launch", "images:ubuntu/22.04", "user1-basic-240101000000")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "(fake)")
	assert.Contains(t, res.Stdout, "launch")
}

func TestRunMissingBinaryWithoutFakeMode(t *testing.T) {
	r := fakeRunner(t)
	r.FakeMode = false

	_, err := r.Run(context.Background(), "info", "whatever")
	assert.Error(t, err)
}

func TestCreateFakeMode(t *testing.T) {
	r := fakeRunner(t)

	out, err := r.Create(context.Background(), "user1-basic-240101000000", "", "", 1024, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDeleteFakeMode(t *testing.T) {
	r := fakeRunner(t)

	assert.NoError(t, r.Delete(context.Background(), "user1-basic-240101000000"))
}

func TestActionValidation(t *testing.T) {
	r := fakeRunner(t)

	for _, action := range []string{"start", "stop", "restart"} {
		out, err := r.Action(context.Background(), "c", action)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	}

	_, err := r.Action(context.Background(), "c", "delete")
	assert.Error(t, err)

	_, err = r.Action(context.Background(), "c", "exec")
	assert.Error(t, err)
}

func TestStatusFakeMode(t *testing.T) {
	r := fakeRunner(t)

	status, err := r.Status(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, "running", status)
}

func TestResultOutput(t *testing.T) {
	assert.Equal(t, "boom", (&Result{Stdout: "out", Stderr: "boom"}).Output())
	assert.Equal(t, "out", (&Result{Stdout: "out"}).Output())
	assert.Equal(t, "out", (&Result{Stdout: "out", Stderr: "  \n"}).Output())
}

func TestContainerName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "user123-basic-240102150405", ContainerName("123", "basic", ts))

	// Anything outside [a-z0-9-] is stripped
	assert.Equal(t, "user123-cstm-240102150405", ContainerName("123", "C_s!t m", ts))
}
