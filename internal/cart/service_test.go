package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type stubCartRepo struct {
	record  *models.CartRecord
	findErr error

	replaced []models.CartItem
	deleted  bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.record, nil
}

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.record = record
	s.findErr = nil
	return record, nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	s.replaced = items
	return nil
}

func (s *stubCartRepo) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	s.deleted = true
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubProducts struct {
	product *models.Product
	err     error
}

func (s *stubProducts) GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func newTestService(t *testing.T, repo *stubCartRepo, products *stubProducts) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{}, products, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetCartEmptyForNewCustomer(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, &stubProducts{})

	view, err := svc.GetCart(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.ItemCount != 0 || len(view.Lines) != 0 {
		t.Fatalf("expected empty cart view, got %+v", view)
	}
}

func TestAddItemCreatesRecordAndPersistsLine(t *testing.T) {
	t.Parallel()

	product := &models.Product{
		ID:         uuid.New(),
		VendorID:   uuid.New(),
		Title:      "Jollof Spice Mix",
		PriceCents: 1250,
	}
	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, &stubProducts{product: product})

	view, err := svc.AddItem(context.Background(), uuid.New(), product.ID)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if len(repo.replaced) != 1 {
		t.Fatalf("expected one persisted item, got %d", len(repo.replaced))
	}
	if repo.replaced[0].Quantity != 1 || repo.replaced[0].UnitPriceCents != 1250 {
		t.Fatalf("unexpected persisted item: %+v", repo.replaced[0])
	}
	if view.SubtotalCents != 1250 || view.ItemCount != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestAddItemPropagatesProductLookupError(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	lookupErr := pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	svc := newTestService(t, repo, &stubProducts{err: lookupErr})

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if repo.replaced != nil {
		t.Fatal("failed add must not persist items")
	}
}

func TestDecreaseToZeroPersistsRemoval(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	productID := uuid.New()
	repo := &stubCartRepo{record: &models.CartRecord{
		ID:         uuid.New(),
		CustomerID: customerID,
		Items: []models.CartItem{{
			ProductID:      productID,
			VendorID:       uuid.New(),
			Title:          "Shea Butter",
			UnitPriceCents: 800,
			Quantity:       1,
		}},
	}}
	svc := newTestService(t, repo, &stubProducts{})

	view, err := svc.DecreaseItem(context.Background(), customerID, productID)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if len(repo.replaced) != 0 {
		t.Fatalf("expected empty persisted items, got %d", len(repo.replaced))
	}
	if view.ItemCount != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestIncreaseMissingLineSurfacesValidation(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{record: &models.CartRecord{ID: uuid.New(), CustomerID: uuid.New()}}
	svc := newTestService(t, repo, &stubProducts{})

	_, err := svc.IncreaseItem(context.Background(), repo.record.CustomerID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearDeletesRecord(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc := newTestService(t, repo, &stubProducts{})

	if err := svc.Clear(context.Background(), uuid.New()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected delete to be issued")
	}
}
