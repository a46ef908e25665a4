package cron

import (
	"context"
	"fmt"

	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type pendingAcceptor interface {
	AutoPassPending(ctx context.Context) (int, error)
}

// AutoPassJobParams configure the auto-pass sweep.
type AutoPassJobParams struct {
	Logger *logger.Logger
	Orders pendingAcceptor
}

type autoPassJob struct {
	logg   *logger.Logger
	orders pendingAcceptor
}

// NewAutoPassJob builds the job accepting every pending order item. The
// worker registers it only while the auto-pass toggle is on.
func NewAutoPassJob(params AutoPassJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &autoPassJob{logg: params.Logger, orders: params.Orders}, nil
}

func (j *autoPassJob) Name() string { return "auto-pass" }

func (j *autoPassJob) Run(ctx context.Context) error {
	accepted, err := j.orders.AutoPassPending(ctx)
	if err != nil {
		return fmt.Errorf("auto-pass sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"items_accepted": accepted})
	j.logg.Info(logCtx, "auto-pass sweep complete")
	return nil
}
