package bgtasks

import (
	"time"

	"vpsbot/state"

	"go.uber.org/zap"
)

// StatusReconciler syncs the container status recorded in postgres (and
// the hot cache) with what lxc actually reports.
type StatusReconciler struct{}

func (StatusReconciler) Enabled() bool {
	return true
}

func (StatusReconciler) Duration() time.Duration {
	return 2 * time.Minute
}

func (StatusReconciler) Name() string {
	return "status_reconciler"
}

func (StatusReconciler) Description() string {
	return "Reconciles stored instance status with live lxc container state"
}

func (StatusReconciler) Run() error {
	instances, err := state.Store.ListInstances(state.Context)

	if err != nil {
		return err
	}

	for _, inst := range instances {
		status, err := state.LXC.Status(state.Context, inst.ContainerName)

		if err != nil {
			state.Logger.Warn("Could not query container status", zap.String("container", inst.ContainerName), zap.Error(err))
			continue
		}

		if status != inst.Status {
			state.Logger.Info(
				"Instance status diverged",
				zap.Int64("id", inst.ID),
				zap.String("container", inst.ContainerName),
				zap.String("stored", inst.Status),
				zap.String("live", status),
			)

			if err := state.Store.UpdateInstanceStatus(state.Context, inst.ID, status); err != nil {
				state.Logger.Error("Error updating instance status", zap.Int64("id", inst.ID), zap.Error(err))
				continue
			}
		}

		if err := state.StatusCache.Set(state.Context, inst.ContainerName, &status, state.StatusCacheExpiry); err != nil {
			state.Logger.Warn("Error caching container status", zap.String("container", inst.ContainerName), zap.Error(err))
		}
	}

	return nil
}
