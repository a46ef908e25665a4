package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

// Filter narrows the catalog list. PromotedVendorIDs rank matching vendors'
// products first; they never exclude anything.
type Filter struct {
	Query             string
	Category          string
	PromotedVendorIDs []uuid.UUID
}

// Repository defines catalog persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter Filter, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error)
}
