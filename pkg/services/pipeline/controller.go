package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Controller starts pipeline runs in the background, one at a time.
type Controller interface {
	Start(ctx context.Context, opts Options) (string, error)
	Cancel(ctx context.Context, runID string) error
	Wait()
}

type runDescriptor struct {
	id         string
	cancelFunc context.CancelFunc
	done       chan struct{}
}

type DefaultController struct {
	runner *Runner

	mu      sync.Mutex
	current *runDescriptor
}

func NewController(runner *Runner) *DefaultController {
	return &DefaultController{runner: runner}
}

// Start launches a run detached from ctx's cancellation, keeping its logger,
// and returns the run id.
func (ctrl *DefaultController) Start(ctx context.Context, opts Options) (string, error) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ctrl.current != nil {
		select {
		case <-ctrl.current.done:
		default:
			return "", ErrRunInProgress
		}
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	desc := &runDescriptor{id: opts.RunID, cancelFunc: cancel, done: make(chan struct{})}
	ctrl.current = desc

	go func() {
		defer close(desc.done)
		defer cancel()
		if _, err := ctrl.runner.Run(runCtx, opts); err != nil {
			zerolog.Ctx(runCtx).Error().Err(err).Str("run_id", desc.id).Msg("background run failed")
		}
	}()
	return desc.id, nil
}

func (ctrl *DefaultController) Cancel(_ context.Context, runID string) error {
	ctrl.mu.Lock()
	desc := ctrl.current
	ctrl.mu.Unlock()

	if desc == nil || desc.id != runID {
		return fmt.Errorf("run not in progress: %s", runID)
	}
	desc.cancelFunc()
	<-desc.done
	return nil
}

// Wait blocks until the current run, if any, has finished.
func (ctrl *DefaultController) Wait() {
	ctrl.mu.Lock()
	desc := ctrl.current
	ctrl.mu.Unlock()

	if desc != nil {
		<-desc.done
	}
}
