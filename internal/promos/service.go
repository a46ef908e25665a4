package promos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ActivateInput captures an admin request to boost one vendor's products.
// Duration zero falls back to the configured default.
type ActivateInput struct {
	VendorID  uuid.UUID
	CreatedBy uuid.UUID
	Duration  time.Duration
}

// PromoView is one promo row as rendered to admins.
type PromoView struct {
	ID        uuid.UUID         `json:"id"`
	VendorID  uuid.UUID         `json:"vendorId"`
	Status    enums.PromoStatus `json:"status"`
	StartsAt  time.Time         `json:"startsAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
	CreatedAt time.Time         `json:"createdAt"`
}

// PromoEvent is the outbox payload for promo activation/expiry.
type PromoEvent struct {
	PromoID   uuid.UUID `json:"promoId"`
	VendorID  uuid.UUID `json:"vendorId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service manages the admin-curated promo list.
type Service interface {
	Activate(ctx context.Context, input ActivateInput) (*PromoView, error)
	List(ctx context.Context) ([]PromoView, error)
	Delete(ctx context.Context, promoID uuid.UUID) error
	ActiveVendorIDs(ctx context.Context) ([]uuid.UUID, error)
	ExpireLapsed(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	cfg    config.PromoConfig
	now    func() time.Time
}

// NewService wires the promos service.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, cfg config.PromoConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promos repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: ob,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

func (s *service) Activate(ctx context.Context, input ActivateInput) (*PromoView, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	duration := input.Duration
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}

	now := s.now().UTC()
	promo := &models.Promo{
		VendorID:  input.VendorID,
		CreatedBy: input.CreatedBy,
		Status:    enums.PromoStatusActive,
		StartsAt:  now,
		ExpiresAt: now.Add(duration),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, promo); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promo")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPromoActivated,
			AggregateType: enums.AggregatePromo,
			AggregateID:   promo.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.CreatedBy, Role: enums.UserRoleAdmin.String()},
			Data: PromoEvent{
				PromoID:   promo.ID,
				VendorID:  promo.VendorID,
				ExpiresAt: promo.ExpiresAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	view := viewOf(promo)
	return &view, nil
}

func (s *service) List(ctx context.Context) ([]PromoView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promos")
	}
	out := make([]PromoView, 0, len(rows))
	for i := range rows {
		out = append(out, viewOf(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, promoID uuid.UUID) error {
	if promoID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo id required")
	}
	if _, err := s.repo.FindByID(ctx, promoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promo not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo")
	}
	if err := s.repo.Delete(ctx, promoID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promo")
	}
	return nil
}

// ActiveVendorIDs feeds the catalog's promo-boosted ordering.
func (s *service) ActiveVendorIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active promos")
	}
	seen := make(map[uuid.UUID]struct{}, len(rows))
	out := make([]uuid.UUID, 0, len(rows))
	for _, promo := range rows {
		if _, dup := seen[promo.VendorID]; dup {
			continue
		}
		seen[promo.VendorID] = struct{}{}
		out = append(out, promo.VendorID)
	}
	return out, nil
}

// ExpireLapsed flips lapsed promos to expired. The cron worker runs it on a
// fixed interval.
func (s *service) ExpireLapsed(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireLapsed(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire promos")
	}
	return count, nil
}

func viewOf(promo *models.Promo) PromoView {
	return PromoView{
		ID:        promo.ID,
		VendorID:  promo.VendorID,
		Status:    promo.Status,
		StartsAt:  promo.StartsAt,
		ExpiresAt: promo.ExpiresAt,
		CreatedAt: promo.CreatedAt,
	}
}
