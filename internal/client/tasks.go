package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// TaskPoller waits for a platform-side task to reach a terminal state,
// checking at a fixed interval against a hard deadline. Time flows through
// the core's clock so tests drive it synthetically.
type TaskPoller struct {
	core     *core
	interval time.Duration
	timeout  time.Duration
}

// Wait polls the task until it reaches a terminal state or the deadline
// passes. A timed-out task may still complete on the platform side; the
// TimeoutError tells the caller to re-query, not that the action failed.
func (p *TaskPoller) Wait(ctx context.Context, action, taskID string) error {
	start := p.core.clock.Now()
	deadline := start.Add(p.timeout)

	for {
		task, err := p.check(ctx, taskID)
		if err != nil {
			return err
		}

		if task.Terminal() {
			if task.Status == qrs.TaskStatusSuccess {
				return nil
			}

			return fmt.Errorf("%s task %s ended %s: %s: %w",
				action, taskID, task.Status, task.Message, qrs.ErrTaskFailed)
		}

		timer := p.core.clock.Timer(p.interval)

		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("waiting for %s task %s: %w", action, taskID, ctx.Err())
		case <-timer.C:
		}

		if !p.core.clock.Now().Before(deadline) {
			return &qrs.TimeoutError{
				Action:  action,
				TaskID:  taskID,
				Elapsed: p.core.clock.Now().Sub(start),
			}
		}
	}
}

func (p *TaskPoller) check(ctx context.Context, taskID string) (*qrs.Task, error) {
	body, err := p.core.fetch(ctx, http.MethodGet, "/qrs/task/"+taskID, nil, nil, "task", taskID)
	if err != nil {
		return nil, err
	}

	task := &qrs.Task{}
	if err := json.Unmarshal(body, task); err != nil {
		return nil, fmt.Errorf("decoding task %s: %w", taskID, err)
	}

	p.core.log.Debug("task polled", map[string]interface{}{"task": taskID, "status": task.Status})

	return task, nil
}
