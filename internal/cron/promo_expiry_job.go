package cron

import (
	"context"
	"fmt"

	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type promoExpirer interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// PromoExpiryJobParams configure the promo expiry sweep.
type PromoExpiryJobParams struct {
	Logger *logger.Logger
	Promos promoExpirer
}

type promoExpiryJob struct {
	logg   *logger.Logger
	promos promoExpirer
}

// NewPromoExpiryJob builds the job flipping lapsed promos to expired.
func NewPromoExpiryJob(params PromoExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Promos == nil {
		return nil, fmt.Errorf("promos service required")
	}
	return &promoExpiryJob{logg: params.Logger, promos: params.Promos}, nil
}

func (j *promoExpiryJob) Name() string { return "promo-expiry" }

func (j *promoExpiryJob) Run(ctx context.Context) error {
	expired, err := j.promos.ExpireLapsed(ctx)
	if err != nil {
		return fmt.Errorf("promo expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"promos_expired": expired})
	j.logg.Info(logCtx, "promo expiry complete")
	return nil
}
