package analytics

import (
	"context"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// Repository reads the raw rows the dashboard aggregates over.
type Repository interface {
	OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	CountUsersByRole(ctx context.Context) (map[enums.UserRole]int64, error)
	CountActiveProducts(ctx context.Context) (int64, error)
}
