package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type promoLookup interface {
	ActiveVendorIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service exposes the storefront catalog.
type Service interface {
	List(ctx context.Context, filter Filter, params pagination.Params) (*List, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*List, error)
	GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo   Repository
	promos promoLookup
}

// NewService wires the catalog service. The promo lookup feeds boosted
// ordering; pass nil-free dependencies only.
func NewService(repo Repository, promos promoLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo lookup required")
	}
	return &service{repo: repo, promos: promos}, nil
}

// ProductView is one catalog row as rendered to clients.
type ProductView struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendorId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	PriceCents  int       `json:"priceCents"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Promoted    bool      `json:"promoted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List wraps paginated catalog rows plus the next cursor. An empty Products
// slice means "no data", never an error.
type List struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

func (s *service) List(ctx context.Context, filter Filter, params pagination.Params) (*List, error) {
	promoted, err := s.promos.ActiveVendorIDs(ctx)
	if err != nil {
		return nil, err
	}
	filter.PromotedVendorIDs = promoted

	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.List(ctx, filter, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return listOf(rows, next, promoted), nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*List, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByVendor(ctx, vendorID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor products")
	}
	return listOf(rows, next, nil), nil
}

// GetActive returns the product only when it exists and is active. The cart
// service uses this as its snapshot source.
func (s *service) GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func parseCursor(raw string) (*pagination.Cursor, error) {
	if raw == "" {
		return nil, nil
	}
	cursor, err := pagination.ParseCursor(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}

func listOf(rows []models.Product, next *pagination.Cursor, promoted []uuid.UUID) *List {
	promotedSet := make(map[uuid.UUID]struct{}, len(promoted))
	for _, id := range promoted {
		promotedSet[id] = struct{}{}
	}

	list := &List{Products: make([]ProductView, 0, len(rows))}
	for _, p := range rows {
		_, isPromoted := promotedSet[p.VendorID]
		list.Products = append(list.Products, ProductView{
			ID:          p.ID,
			VendorID:    p.VendorID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			PriceCents:  p.PriceCents,
			ImageURL:    p.ImageURL,
			Promoted:    isPromoted,
			CreatedAt:   p.CreatedAt,
		})
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list
}
