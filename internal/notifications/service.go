package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/outbox"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Recipient identifies whose notification feed is being read.
type Recipient struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ListParams carries feed query inputs.
type ListParams struct {
	Recipient  Recipient
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// NotificationView is one feed row with the caller's read state resolved.
type NotificationView struct {
	ID        uuid.UUID                `json:"id"`
	Title     string                   `json:"title"`
	Message   string                   `json:"message"`
	Target    enums.NotificationTarget `json:"target"`
	Read      bool                     `json:"read"`
	CreatedAt time.Time                `json:"createdAt"`
}

// ListResult wraps the feed page plus the cursor for the next one.
type ListResult struct {
	Notifications []NotificationView `json:"notifications"`
	NextCursor    string             `json:"nextCursor,omitempty"`
}

// BroadcastInput is an admin announcement pushed to a target audience.
type BroadcastInput struct {
	Title     string
	Message   string
	Target    enums.NotificationTarget
	CreatedBy uuid.UUID
}

// BroadcastEvent is the outbox payload for an admin broadcast.
type BroadcastEvent struct {
	NotificationID uuid.UUID                `json:"notificationId"`
	Target         enums.NotificationTarget `json:"target"`
	Title          string                   `json:"title"`
}

// Service exposes the notification feed and its read tracking.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient Recipient) (int64, error)
	UnreadCountFor(ctx context.Context, recipient Recipient) (int64, error)
	Broadcast(ctx context.Context, input BroadcastInput) (*NotificationView, error)
	Insert(ctx context.Context, title, message string, target enums.NotificationTarget) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: ob, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if err := validateRecipient(params.Recipient); err != nil {
		return nil, err
	}

	query := listParams{
		Role:       params.Recipient.Role,
		UserID:     params.Recipient.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	result := &ListResult{Notifications: make([]NotificationView, 0, len(rows))}
	for i := range rows {
		result.Notifications = append(result.Notifications, viewFor(&rows[i], params.Recipient.UserID))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error {
	if err := validateRecipient(recipient); err != nil {
		return err
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	if _, err := s.repo.FindByID(ctx, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}

	if err := s.repo.MarkRead(ctx, notificationID, recipient.UserID, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipient Recipient) (int64, error) {
	if err := validateRecipient(recipient); err != nil {
		return 0, err
	}
	count, err := s.repo.MarkAllRead(ctx, recipient.Role, recipient.UserID, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) UnreadCountFor(ctx context.Context, recipient Recipient) (int64, error) {
	if err := validateRecipient(recipient); err != nil {
		return 0, err
	}
	count, err := s.repo.CountUnread(ctx, recipient.Role, recipient.UserID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

// Broadcast stores an admin announcement and emits the outbox event the
// push channel consumes.
func (s *service) Broadcast(ctx context.Context, input BroadcastInput) (*NotificationView, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown notification target")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	notification := &models.Notification{
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
		Target:  input.Target,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventNotificationBroadcast,
			AggregateType: enums.AggregateNotification,
			AggregateID:   notification.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.CreatedBy, Role: enums.UserRoleAdmin.String()},
			Data: BroadcastEvent{
				NotificationID: notification.ID,
				Target:         notification.Target,
				Title:          notification.Title,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	view := viewFor(notification, uuid.Nil)
	return &view, nil
}

// Insert stores a system-generated notification without an outbox hop. The
// consumer uses it when materializing order events.
func (s *service) Insert(ctx context.Context, title, message string, target enums.NotificationTarget) error {
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification target")
	}
	notification := &models.Notification{
		Title:   title,
		Message: message,
		Target:  target,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stale notifications")
	}
	return count, nil
}

func validateRecipient(recipient Recipient) error {
	if recipient.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !recipient.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown user role")
	}
	return nil
}

func viewFor(notification *models.Notification, userID uuid.UUID) NotificationView {
	read := false
	for _, r := range notification.Reads {
		if r.UserID == userID {
			read = true
			break
		}
	}
	return NotificationView{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		Target:    notification.Target,
		Read:      read,
		CreatedAt: notification.CreatedAt,
	}
}
