package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/internal/notifications"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
	markReadFn    func(ctx context.Context, recipient notifications.Recipient, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, recipient notifications.Recipient) (int64, error)
	unreadFn      func(ctx context.Context, recipient notifications.Recipient) (int64, error)
	broadcastFn   func(ctx context.Context, input notifications.BroadcastInput) (*notifications.NotificationView, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, recipient notifications.Recipient, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, recipient, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, recipient notifications.Recipient) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, recipient)
	}
	return 0, nil
}

func (s *testNotificationsService) UnreadCountFor(ctx context.Context, recipient notifications.Recipient) (int64, error) {
	if s.unreadFn != nil {
		return s.unreadFn(ctx, recipient)
	}
	return 0, nil
}

func (s *testNotificationsService) Broadcast(ctx context.Context, input notifications.BroadcastInput) (*notifications.NotificationView, error) {
	if s.broadcastFn != nil {
		return s.broadcastFn(ctx, input)
	}
	return &notifications.NotificationView{}, nil
}

func (s *testNotificationsService) Insert(ctx context.Context, title, message string, target enums.NotificationTarget) error {
	return nil
}

func (s *testNotificationsService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestListNotificationsForwardsQuery(t *testing.T) {
	userID := uuid.New()
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
			got = params
			return &notifications.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5&unreadOnly=true&cursor=abc", nil)
	req = withIdentity(req, userID, enums.UserRoleVendor)
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Recipient.UserID != userID || got.Recipient.Role != enums.UserRoleVendor {
		t.Fatalf("unexpected recipient %+v", got.Recipient)
	}
	if got.Limit != 5 || !got.UnreadOnly || got.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", got)
	}
}

func TestListNotificationsRejectsBadUnreadOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unreadOnly=banana", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUnreadNotificationCount(t *testing.T) {
	svc := &testNotificationsService{
		unreadFn: func(ctx context.Context, recipient notifications.Recipient) (int64, error) {
			return 7, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	UnreadNotificationCount(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["unread"] != 7 {
		t.Fatalf("expected unread=7 got %v", envelope.Data["unread"])
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, recipient notifications.Recipient, nid uuid.UUID) error {
			called = true
			if recipient.UserID != userID {
				t.Fatalf("unexpected user %s", recipient.UserID)
			}
			if nid != notificationID {
				t.Fatalf("unexpected notification %s", nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = withIdentity(req, userID, enums.UserRoleCustomer)
	req = addRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/bad/read", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	req = addRouteParam(req, "notificationId", "bad")
	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsReadReportsCount(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, recipient notifications.Recipient) (int64, error) {
			return 4, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleVendor)
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["marked"] != 4 {
		t.Fatalf("expected marked=4 got %v", envelope.Data["marked"])
	}
}
