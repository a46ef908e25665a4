package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

const (
	notificationRetentionDays = 30
	outboxRetentionDays       = 7
)

type notificationPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type outboxPruner interface {
	DeletePublishedBefore(cutoff time.Time) (int64, error)
}

// RetentionJobParams configure the cleanup sweep.
type RetentionJobParams struct {
	Logger                *logger.Logger
	Notifications         notificationPruner
	Outbox                outboxPruner
	NotificationRetention int
	OutboxRetention       int
}

type retentionJob struct {
	logg             *logger.Logger
	notifications    notificationPruner
	outbox           outboxPruner
	notificationDays int
	outboxDays       int
	now              func() time.Time
}

// NewRetentionJob builds the job trimming old notifications and published
// outbox rows. One store failing does not stop the other sweep.
func NewRetentionJob(params RetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	notificationDays := params.NotificationRetention
	if notificationDays <= 0 {
		notificationDays = notificationRetentionDays
	}
	outboxDays := params.OutboxRetention
	if outboxDays <= 0 {
		outboxDays = outboxRetentionDays
	}
	return &retentionJob{
		logg:             params.Logger,
		notifications:    params.Notifications,
		outbox:           params.Outbox,
		notificationDays: notificationDays,
		outboxDays:       outboxDays,
		now:              time.Now,
	}, nil
}

func (j *retentionJob) Name() string { return "retention-cleanup" }

func (j *retentionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	notificationCutoff := now.Add(-time.Duration(j.notificationDays) * 24 * time.Hour)
	notificationsDeleted, err := j.notifications.DeleteOlderThan(ctx, notificationCutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("notification cleanup: %w", err))
	}

	outboxCutoff := now.Add(-time.Duration(j.outboxDays) * 24 * time.Hour)
	outboxDeleted, err := j.outbox.DeletePublishedBefore(outboxCutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("outbox cleanup: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"notifications_deleted": notificationsDeleted,
		"outbox_deleted":        outboxDeleted,
	})
	j.logg.Info(logCtx, "retention sweep complete")
	return multierr.Combine(errs...)
}
