package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the customer's persistent cart. The cart is loaded at
// session start and written back after every mutation.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	IncreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	DecreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	SetItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, products: products, logg: logg}, nil
}

// LineView is one cart line as rendered to clients.
type LineView struct {
	ProductID      uuid.UUID `json:"productId"`
	VendorID       uuid.UUID `json:"vendorId"`
	Title          string    `json:"title"`
	UnitPriceCents int       `json:"unitPriceCents"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	Quantity       int       `json:"quantity"`
	TotalCents     int       `json:"totalCents"`
}

// VendorGroupView is one vendor's partition of the cart.
type VendorGroupView struct {
	VendorID uuid.UUID  `json:"vendorId"`
	Lines    []LineView `json:"lines"`
}

// View is the full cart projection: lines plus derived values, recomputed
// on every read.
type View struct {
	Lines         []LineView        `json:"lines"`
	VendorGroups  []VendorGroupView `json:"vendorGroups"`
	SubtotalCents int               `json:"subtotalCents"`
	ItemCount     int               `json:"itemCount"`
}

func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	record, err := s.repo.FindByCustomer(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return viewOf(New()), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return viewOf(aggregateOf(record)), nil
}

func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	product, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		ProductID:      product.ID,
		VendorID:       product.VendorID,
		Title:          product.Title,
		UnitPriceCents: product.PriceCents,
		ImageURL:       product.ImageURL,
	}

	return s.mutate(ctx, customerID, func(c Cart) (Cart, error) {
		return c.Add(snap)
	})
}

func (s *service) IncreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	return s.mutate(ctx, customerID, func(c Cart) (Cart, error) {
		return c.Increase(productID)
	})
}

func (s *service) DecreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	return s.mutate(ctx, customerID, func(c Cart) (Cart, error) {
		return c.Decrease(productID)
	})
}

func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	return s.mutate(ctx, customerID, func(c Cart) (Cart, error) {
		return c.Remove(productID), nil
	})
}

func (s *service) SetItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*View, error) {
	return s.mutate(ctx, customerID, func(c Cart) (Cart, error) {
		return c.SetQuantity(productID, quantity)
	})
}

// Clear drops the customer's cart entirely. Used on logout and after an
// order is placed.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := s.repo.DeleteByCustomer(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	s.logg.Info(s.logg.WithUserID(ctx, customerID.String()), "cart cleared")
	return nil
}

// mutate applies one aggregate operation and persists the result in a single
// transaction.
func (s *service) mutate(ctx context.Context, customerID uuid.UUID, op func(Cart) (Cart, error)) (*View, error) {
	var next Cart

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindByCustomer(ctx, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record, err = repo.Create(ctx, &models.CartRecord{CustomerID: customerID})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}

		next, err = op(aggregateOf(record))
		if err != nil {
			return err
		}

		if err := repo.ReplaceItems(ctx, record.ID, itemsOf(next)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return viewOf(next), nil
}

func aggregateOf(record *models.CartRecord) Cart {
	lines := make([]Line, 0, len(record.Items))
	for _, item := range record.Items {
		lines = append(lines, Line{
			Snapshot: Snapshot{
				ProductID:      item.ProductID,
				VendorID:       item.VendorID,
				Title:          item.Title,
				UnitPriceCents: item.UnitPriceCents,
				ImageURL:       item.ImageURL,
			},
			Quantity: item.Quantity,
		})
	}
	return FromLines(lines)
}

func itemsOf(c Cart) []models.CartItem {
	lines := c.Lines()
	items := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.CartItem{
			ProductID:      l.ProductID,
			VendorID:       l.VendorID,
			Title:          l.Title,
			UnitPriceCents: l.UnitPriceCents,
			ImageURL:       l.ImageURL,
			Quantity:       l.Quantity,
		})
	}
	return items
}

func viewOf(c Cart) *View {
	lines := c.Lines()
	view := &View{
		Lines:         make([]LineView, 0, len(lines)),
		SubtotalCents: c.SubtotalCents(),
		ItemCount:     c.ItemCount(),
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, lineViewOf(l))
	}
	for _, g := range c.GroupByVendor() {
		group := VendorGroupView{VendorID: g.VendorID, Lines: make([]LineView, 0, len(g.Lines))}
		for _, l := range g.Lines {
			group.Lines = append(group.Lines, lineViewOf(l))
		}
		view.VendorGroups = append(view.VendorGroups, group)
	}
	return view
}

func lineViewOf(l Line) LineView {
	return LineView{
		ProductID:      l.ProductID,
		VendorID:       l.VendorID,
		Title:          l.Title,
		UnitPriceCents: l.UnitPriceCents,
		ImageURL:       l.ImageURL,
		Quantity:       l.Quantity,
		TotalCents:     l.TotalCents(),
	}
}
