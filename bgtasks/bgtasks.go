package bgtasks

import (
	"sync"
	"time"

	"vpsbot/state"

	"go.uber.org/zap"
)

var taskMutex sync.Mutex

var BgTaskRegistry = []BackgroundTask{
	StatusReconciler{},
}

type BackgroundTask interface {
	// Whether or not the task is enabled
	Enabled() bool

	// How often the task should run
	Duration() time.Duration

	// Name of the task
	Name() string

	// Description of the task
	Description() string

	// Function to run the task
	Run() error
}

func StartAllTasks() {
	for _, bgTask := range BgTaskRegistry {
		if bgTask.Enabled() {
			go runTask(bgTask)
		}
	}
}

func runTask(bgTask BackgroundTask) {
	defer func() {
		if err := recover(); err != nil {
			state.Logger.Error("Task crashed, restarting", zap.String("task", bgTask.Name()), zap.Any("error", err))
			go runTask(bgTask)
		}
	}()

	duration := bgTask.Duration()
	description := bgTask.Description()
	name := bgTask.Name()

	for {
		time.Sleep(duration)

		func() {
			taskMutex.Lock()
			defer taskMutex.Unlock()

			state.Logger.Info("Running task", zap.String("task", name), zap.Duration("duration", duration), zap.String("description", description))

			err := bgTask.Run()

			if err != nil {
				state.Logger.Error("Task failed", zap.String("task", name), zap.Error(err), zap.String("description", description))
			}
		}()
	}
}
