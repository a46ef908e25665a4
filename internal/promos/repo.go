package promos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// Repository defines promo persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, promo *models.Promo) (*models.Promo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promo, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Promo, error)
	List(ctx context.Context) ([]models.Promo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a promos repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, promo *models.Promo) (*models.Promo, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promo, error) {
	var promo models.Promo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]models.Promo, error) {
	var rows []models.Promo
	err := r.db.WithContext(ctx).
		Where("status = ? AND starts_at <= ? AND expires_at > ?", enums.PromoStatusActive, now, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context) ([]models.Promo, error) {
	var rows []models.Promo
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Promo{}).Error
}

// ExpireLapsed flips every active promo whose window has closed.
func (r *repository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Promo{}).
		Where("status = ? AND expires_at <= ?", enums.PromoStatusActive, now).
		Update("status", enums.PromoStatusExpired)
	return result.RowsAffected, result.Error
}
