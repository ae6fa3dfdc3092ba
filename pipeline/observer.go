package pipeline

import (
	"context"
	"errors"
	"time"
)

// MultiObserver fans every hook out to each observer in order. Nil entries are
// skipped. All observers are called even when one fails; the errors are joined.
func MultiObserver(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return multiObserver(list)
}

type multiObserver []Observer

func (m multiObserver) BeforePipeline(ctx context.Context, runID, name string, payload interface{}) error {
	var errs []error
	for _, o := range m {
		errs = append(errs, o.BeforePipeline(ctx, runID, name, payload))
	}
	return errors.Join(errs...)
}

func (m multiObserver) AfterPipeline(ctx context.Context, runID string, result interface{}, err error) error {
	var errs []error
	for _, o := range m {
		errs = append(errs, o.AfterPipeline(ctx, runID, result, err))
	}
	return errors.Join(errs...)
}

func (m multiObserver) BeforeStage(ctx context.Context, runID string, stageIndex int, input interface{}) error {
	var errs []error
	for _, o := range m {
		errs = append(errs, o.BeforeStage(ctx, runID, stageIndex, input))
	}
	return errors.Join(errs...)
}

func (m multiObserver) AfterStage(ctx context.Context, runID string, stageIndex int, input, output interface{}, stageErr error, duration time.Duration) error {
	var errs []error
	for _, o := range m {
		errs = append(errs, o.AfterStage(ctx, runID, stageIndex, input, output, stageErr, duration))
	}
	return errors.Join(errs...)
}
