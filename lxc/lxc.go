// Package lxc shells out to the lxc CLI to manage containers.
//
// LXD is treated as an opaque external collaborator: every operation is a
// subprocess invocation of the configured binary. When the binary is
// missing and fake mode is enabled, commands succeed with a marker output
// so the rest of the system can be exercised without a hypervisor.
package lxc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var nameRe = regexp.MustCompile(`[^a-z0-9-]`)

// Valid actions for Action. "delete" is intentionally not here, deletion
// goes through Delete which force-stops first.
var validActions = map[string]bool{
	"start":   true,
	"stop":    true,
	"restart": true,
}

type Runner struct {
	Path           string
	FakeMode       bool
	DefaultImage   string
	DefaultProfile string
	Timeout        time.Duration
	Logger         *zap.Logger
}

type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stderr if present, falling back to stdout. lxc writes
// its failure reasons to stderr but not always.
func (r *Result) Output() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}

	return r.Stdout
}

// Faked reports whether the runner is operating without a real lxc binary.
func (r *Runner) Faked() bool {
	if !r.FakeMode {
		return false
	}

	_, err := os.Stat(r.Path)

	return err != nil
}

// Run executes the lxc binary with the given arguments. A non-zero exit
// code is not an error; callers check Result.ExitCode.
func (r *Runner) Run(ctx context.Context, args ...string) (*Result, error) {
	if r.Faked() {
		return &Result{
			ExitCode: 0,
			Stdout:   "(fake) " + r.Path + " " + strings.Join(args, " "),
		}, nil
	}

	timeout := r.Timeout

	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError

		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}

		return nil, fmt.Errorf("error running %s %s: %w", r.Path, strings.Join(args, " "), err)
	}

	return res, nil
}

// Create launches a container and applies memory/cpu limits. Limit
// application is best-effort, matching `lxc config set` being advisory
// after a successful launch.
func (r *Runner) Create(ctx context.Context, name, image, profile string, ramMB, cpuCores int) (string, error) {
	if image == "" {
		image = r.DefaultImage
	}

	if profile == "" {
		profile = r.DefaultProfile
	}

	res, err := r.Run(ctx, "launch", image, name, "-p", profile)

	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		return "", fmt.Errorf("lxc launch failed: %s", res.Output())
	}

	if ramMB > 0 {
		memBytes := int64(ramMB) * 1024 * 1024

		if _, err := r.Run(ctx, "config", "set", name, "limits.memory", strconv.FormatInt(memBytes, 10)); err != nil {
			r.Logger.Warn("Failed to set memory limit", zap.String("container", name), zap.Error(err))
		}
	}

	if cpuCores > 0 {
		if _, err := r.Run(ctx, "config", "set", name, "limits.cpu", strconv.Itoa(cpuCores)); err != nil {
			r.Logger.Warn("Failed to set cpu limit", zap.String("container", name), zap.Error(err))
		}
	}

	if res.Stdout == "" {
		return "created", nil
	}

	return res.Stdout, nil
}

// Delete force-stops then deletes a container. The stop may fail when the
// container is already stopped, so only the delete is checked.
func (r *Runner) Delete(ctx context.Context, name string) error {
	if _, err := r.Run(ctx, "stop", name, "--force"); err != nil {
		return err
	}

	res, err := r.Run(ctx, "delete", name)

	if err != nil {
		return err
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("lxc delete failed: %s", res.Output())
	}

	return nil
}

// Action runs start/stop/restart on a container.
func (r *Runner) Action(ctx context.Context, name, action string) (string, error) {
	if !validActions[action] {
		return "", fmt.Errorf("invalid action %q", action)
	}

	res, err := r.Run(ctx, action, name)

	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		return "", fmt.Errorf("lxc %s failed: %s", action, res.Output())
	}

	if res.Stdout == "" {
		return "OK", nil
	}

	return res.Stdout, nil
}

// Info returns `lxc info` output for a container.
func (r *Runner) Info(ctx context.Context, name string) (string, error) {
	res, err := r.Run(ctx, "info", name)

	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		return "", fmt.Errorf("lxc info failed: %s", res.Output())
	}

	return res.Stdout, nil
}

// Status returns the container status line from `lxc info`, lowercased
// (running/stopped/...), or "unknown" when it cannot be determined.
func (r *Runner) Status(ctx context.Context, name string) (string, error) {
	if r.Faked() {
		return "running", nil
	}

	out, err := r.Info(ctx, name)

	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		if after, ok := strings.CutPrefix(line, "Status:"); ok {
			return strings.ToLower(strings.TrimSpace(after)), nil
		}
	}

	return "unknown", nil
}

// ContainerName derives the container name for a user/plan pair:
// user<id>-<plan>-<yymmddhhmmss>, restricted to [a-z0-9-].
func ContainerName(userID, plan string, now time.Time) string {
	base := nameRe.ReplaceAllString(strings.ToLower("user"+userID+"-"+plan), "")

	return base + "-" + now.UTC().Format("060102150405")
}
