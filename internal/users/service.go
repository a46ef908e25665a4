package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type suspensionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SuspensionKey(userID string) string
}

// ListInput carries admin user-list filters.
type ListInput struct {
	Role   string
	Status string
	Limit  int
	Cursor string
}

// UserView is one account row for the admin panel.
type UserView struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      enums.UserRole   `json:"role"`
	Status    enums.UserStatus `json:"status"`
	StoreName *string          `json:"storeName,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// UserList wraps one page of accounts.
type UserList struct {
	Users      []UserView `json:"users"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// Service exposes account lookups and admin moderation.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, input ListInput) (*UserList, error)
	Suspend(ctx context.Context, userID, actorID uuid.UUID) (*UserView, error)
	Activate(ctx context.Context, userID, actorID uuid.UUID) (*UserView, error)
}

type service struct {
	repo        Repository
	suspensions suspensionStore
	logg        *logger.Logger
}

// NewService wires users dependencies.
func NewService(repo Repository, suspensions suspensionStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if suspensions == nil {
		return nil, fmt.Errorf("suspension store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, suspensions: suspensions, logg: logg}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	view := viewOf(user)
	return &view, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*UserList, error) {
	filter := listFilter{Limit: input.Limit}
	if input.Role != "" {
		role, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter")
		}
		filter.Role = role
	}
	if input.Status != "" {
		status := enums.UserStatus(input.Status)
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filter.Status = status
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		filter.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	list := &UserList{Users: make([]UserView, 0, len(rows))}
	for i := range rows {
		list.Users = append(list.Users, viewOf(&rows[i]))
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

// Suspend bans an account and drops a redis marker so auth middleware
// rejects in-flight tokens. Suspending an admin or yourself is rejected.
func (s *service) Suspend(ctx context.Context, userID, actorID uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.ID == actorID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot suspend your own account")
	}
	if user.Role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot be suspended")
	}
	if user.Status == enums.UserStatusSuspended {
		view := viewOf(user)
		return &view, nil
	}

	if err := s.repo.UpdateStatus(ctx, userID, enums.UserStatusSuspended); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suspend user")
	}
	if err := s.suspensions.Set(ctx, s.suspensions.SuspensionKey(userID.String()), "1", 0); err != nil {
		// The status column is the source of truth; the marker only
		// shortens how long a live token keeps working.
		s.logg.Error(ctx, "failed to mark suspension in redis", err)
	}

	user.Status = enums.UserStatusSuspended
	view := viewOf(user)
	return &view, nil
}

func (s *service) Activate(ctx context.Context, userID, actorID uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Status == enums.UserStatusActive {
		view := viewOf(user)
		return &view, nil
	}

	if err := s.repo.UpdateStatus(ctx, userID, enums.UserStatusActive); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate user")
	}
	if err := s.suspensions.Del(ctx, s.suspensions.SuspensionKey(userID.String())); err != nil {
		s.logg.Error(ctx, "failed to clear suspension marker", err)
	}

	user.Status = enums.UserStatusActive
	view := viewOf(user)
	return &view, nil
}

func viewOf(user *models.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		StoreName: user.StoreName,
		CreatedAt: user.CreatedAt,
	}
}
