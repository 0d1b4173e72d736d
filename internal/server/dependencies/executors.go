package dependencies

import (
	"context"
	"fmt"

	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
)

type taskErrorHandler struct{}

func (taskErrorHandler) CatchError(runnable executors.Runnable, err error) {
	log.Error(context.Background(), "background task failed",
		log.String("task", fmt.Sprintf("%T", runnable)),
		log.Cause(err))
}

// taskRejectionHandler drops the task; the next cron tick schedules it again.
type taskRejectionHandler struct{}

func (taskRejectionHandler) RejectExecution(runnable executors.Runnable, _ executors.Executor) error {
	log.Warn(context.Background(), "background task rejected, pool is full",
		log.String("task", fmt.Sprintf("%T", runnable)))

	return nil
}

// NewExecutors returns the pool running cron jobs such as pending payment
// re-verification. It is shut down with the application.
func NewExecutors(lc fx.Lifecycle, logger *log.Logger) executors.ScheduledExecutor {
	executor := executors.NewPoolScheduleExecutor(
		executors.WithMaxConcurrent(8),
		executors.WithMaxBlockingTasks(256),
		executors.WithErrorHandler(taskErrorHandler{}),
		executors.WithRejectionHandler(taskRejectionHandler{}),
		executors.WithLogger(logger.AsSlog()),
	)

	lc.Append(fx.Hook{
		OnStop: executor.Shutdown,
	})

	return executor
}
