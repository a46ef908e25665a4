package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

func transitionRouteRequest(t *testing.T, orderID, itemID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/items/"+itemID.String()+"/accept", strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())
	routeCtx.URLParams.Add("itemId", itemID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestTransitionOrderItemVendorClaimsOwnItems(t *testing.T) {
	vendorID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()
	var got orders.ItemTransitionInput
	svc := &testOrdersService{
		transitionFn: func(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error) {
			got = input
			return &orders.View{}, nil
		},
	}

	req := transitionRouteRequest(t, orderID, itemID, `{"notes":"out of stock"}`)
	req = withIdentity(req, vendorID, enums.UserRoleVendor)
	resp := httptest.NewRecorder()
	TransitionOrderItem(svc, testLogger(), "reject")(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Action != "reject" {
		t.Fatalf("unexpected action %q", got.Action)
	}
	if got.OrderID != orderID || got.ItemID != itemID {
		t.Fatalf("unexpected ids %s %s", got.OrderID, got.ItemID)
	}
	if got.ActorVendor == nil || *got.ActorVendor != vendorID {
		t.Fatalf("expected vendor scope %v", got.ActorVendor)
	}
	if got.Notes == nil || *got.Notes != "out of stock" {
		t.Fatalf("expected notes carried, got %v", got.Notes)
	}
}

func TestTransitionOrderItemAdminHasNoVendorScope(t *testing.T) {
	var got orders.ItemTransitionInput
	svc := &testOrdersService{
		transitionFn: func(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error) {
			got = input
			return &orders.View{}, nil
		},
	}

	req := transitionRouteRequest(t, uuid.New(), uuid.New(), "")
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	resp := httptest.NewRecorder()
	TransitionOrderItem(svc, testLogger(), "advance")(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.ActorVendor != nil {
		t.Fatalf("expected nil vendor scope, got %v", got.ActorVendor)
	}
	if got.ActorRole != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", got.ActorRole)
	}
}

func TestTransitionOrderItemEmptyBodyHasNoNotes(t *testing.T) {
	var got orders.ItemTransitionInput
	svc := &testOrdersService{
		transitionFn: func(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error) {
			got = input
			return &orders.View{}, nil
		},
	}

	req := transitionRouteRequest(t, uuid.New(), uuid.New(), "")
	req = withIdentity(req, uuid.New(), enums.UserRoleVendor)
	resp := httptest.NewRecorder()
	TransitionOrderItem(svc, testLogger(), "accept")(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Notes != nil {
		t.Fatalf("expected nil notes, got %q", *got.Notes)
	}
}

func TestDeliverAllOrderItemsReportsCount(t *testing.T) {
	vendorID := uuid.New()
	orderID := uuid.New()
	svc := &testOrdersService{
		deliverAllFn: func(ctx context.Context, input orders.DeliverAllInput) (int, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order %s", input.OrderID)
			}
			if input.ActorVendor == nil || *input.ActorVendor != vendorID {
				t.Fatalf("expected vendor scope %v", input.ActorVendor)
			}
			return 3, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/deliver-all", nil)
	req = withIdentity(req, vendorID, enums.UserRoleVendor)
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	DeliverAllOrderItems(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["advanced"] != 3 {
		t.Fatalf("expected advanced=3 got %v", envelope.Data["advanced"])
	}
}

func TestListVendorOrdersUsesActorAsVendor(t *testing.T) {
	vendorID := uuid.New()
	called := false
	svc := &testOrdersService{
		listVendorFn: func(ctx context.Context, vid uuid.UUID, params pagination.Params) (*orders.VendorOrderList, error) {
			called = true
			if vid != vendorID {
				t.Fatalf("unexpected vendor %s", vid)
			}
			return &orders.VendorOrderList{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/orders", nil)
	req = withIdentity(req, vendorID, enums.UserRoleVendor)
	resp := httptest.NewRecorder()
	ListVendorOrders(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
