package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// visibleTargets maps a role to the targets it can see. Admins see all.
func visibleTargets(role enums.UserRole) []enums.NotificationTarget {
	switch role {
	case enums.UserRoleVendor:
		return []enums.NotificationTarget{enums.NotificationTargetVendor, enums.NotificationTargetBoth}
	case enums.UserRoleCustomer:
		return []enums.NotificationTarget{enums.NotificationTargetCustomer, enums.NotificationTargetBoth}
	default:
		return nil
	}
}

func (r *repositoryImpl) scopedQuery(ctx context.Context, role enums.UserRole) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	if targets := visibleTargets(role); targets != nil {
		query = query.Where("target IN ?", targets)
	}
	return query
}

func (r *repositoryImpl) List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(params.Limit)
	buffered := pagination.LimitWithBuffer(params.Limit)

	query := r.scopedQuery(ctx, params.Role)
	if params.UnreadOnly {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM notification_reads nr WHERE nr.notification_id = notifications.id AND nr.user_id = ?)",
			params.UserID,
		)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Notification
	err := query.
		Preload("Reads", "user_id = ?", params.UserID).
		Order("created_at DESC, id DESC").
		Limit(buffered).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// MarkRead inserts the read marker; replaying it for the same user is a
// no-op, which makes the operation idempotent.
func (r *repositoryImpl) MarkRead(ctx context.Context, notificationID, userID uuid.UUID, now time.Time) error {
	read := models.NotificationRead{
		NotificationID: notificationID,
		UserID:         userID,
		ReadAt:         now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&read).Error
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, role enums.UserRole, userID uuid.UUID, now time.Time) (int64, error) {
	var unreadIDs []uuid.UUID
	query := r.scopedQuery(ctx, role).
		Where(
			"NOT EXISTS (SELECT 1 FROM notification_reads nr WHERE nr.notification_id = notifications.id AND nr.user_id = ?)",
			userID,
		).
		Pluck("id", &unreadIDs)
	if query.Error != nil {
		return 0, query.Error
	}
	if len(unreadIDs) == 0 {
		return 0, nil
	}

	reads := make([]models.NotificationRead, 0, len(unreadIDs))
	for _, id := range unreadIDs {
		reads = append(reads, models.NotificationRead{
			NotificationID: id,
			UserID:         userID,
			ReadAt:         now,
		})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&reads).Error
	if err != nil {
		return 0, err
	}
	return int64(len(reads)), nil
}

func (r *repositoryImpl) CountUnread(ctx context.Context, role enums.UserRole, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.scopedQuery(ctx, role).
		Where(
			"NOT EXISTS (SELECT 1 FROM notification_reads nr WHERE nr.notification_id = notifications.id AND nr.user_id = ?)",
			userID,
		).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan drops stale notifications; reads cascade.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
