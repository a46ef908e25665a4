package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filter Filter, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		query = query.Where("category = ?", c)
	}

	order := "created_at DESC, id DESC"
	if len(filter.PromotedVendorIDs) > 0 {
		// Promoted vendors rank first; within each band, newest first.
		query = query.Select("*, CASE WHEN vendor_id IN (?) THEN 0 ELSE 1 END AS promo_rank", filter.PromotedVendorIDs)
		order = "promo_rank ASC, " + order
	}

	return r.listProducts(query, order, limit, cursor)
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("vendor_id = ? AND is_active = ?", vendorID, true)
	return r.listProducts(query, "created_at DESC, id DESC", limit, cursor)
}

func (r *repository) listProducts(query *gorm.DB, order string, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(limit)
	buffered := pagination.LimitWithBuffer(limit)

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err := query.
		Order(order).
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
