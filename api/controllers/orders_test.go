package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type testOrdersService struct {
	placeOrderFn   func(ctx context.Context, input orders.PlaceOrderInput) (*orders.View, error)
	getCustomerFn  func(ctx context.Context, customerID, orderID uuid.UUID) (*orders.View, error)
	listCustomerFn func(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*orders.List, error)
	listVendorFn   func(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*orders.VendorOrderList, error)
	getOrderFn     func(ctx context.Context, orderID uuid.UUID) (*orders.View, error)
	listAllFn      func(ctx context.Context, params pagination.Params) (*orders.List, error)
	transitionFn   func(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error)
	deliverAllFn   func(ctx context.Context, input orders.DeliverAllInput) (int, error)
}

func (s *testOrdersService) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.View, error) {
	if s.placeOrderFn != nil {
		return s.placeOrderFn(ctx, input)
	}
	return &orders.View{}, nil
}

func (s *testOrdersService) GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*orders.View, error) {
	if s.getCustomerFn != nil {
		return s.getCustomerFn(ctx, customerID, orderID)
	}
	return &orders.View{}, nil
}

func (s *testOrdersService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*orders.List, error) {
	if s.listCustomerFn != nil {
		return s.listCustomerFn(ctx, customerID, params)
	}
	return &orders.List{}, nil
}

func (s *testOrdersService) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*orders.VendorOrderList, error) {
	if s.listVendorFn != nil {
		return s.listVendorFn(ctx, vendorID, params)
	}
	return &orders.VendorOrderList{}, nil
}

func (s *testOrdersService) GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.View, error) {
	if s.getOrderFn != nil {
		return s.getOrderFn(ctx, orderID)
	}
	return &orders.View{}, nil
}

func (s *testOrdersService) ListAllOrders(ctx context.Context, params pagination.Params) (*orders.List, error) {
	if s.listAllFn != nil {
		return s.listAllFn(ctx, params)
	}
	return &orders.List{}, nil
}

func (s *testOrdersService) TransitionItem(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error) {
	if s.transitionFn != nil {
		return s.transitionFn(ctx, input)
	}
	return &orders.View{}, nil
}

func (s *testOrdersService) DeliverAll(ctx context.Context, input orders.DeliverAllInput) (int, error) {
	if s.deliverAllFn != nil {
		return s.deliverAllFn(ctx, input)
	}
	return 0, nil
}

func (s *testOrdersService) AutoPassPending(ctx context.Context) (int, error) {
	return 0, nil
}

func TestCheckoutSuccess(t *testing.T) {
	customerID := uuid.New()
	var got orders.PlaceOrderInput
	svc := &testOrdersService{
		placeOrderFn: func(ctx context.Context, input orders.PlaceOrderInput) (*orders.View, error) {
			got = input
			return &orders.View{}, nil
		},
	}

	body := strings.NewReader(`{"fulfillmentType":"delivery","paymentMethod":"mobile_money"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req = withIdentity(req, customerID, enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got.CustomerID != customerID {
		t.Fatalf("unexpected customer %s", got.CustomerID)
	}
	if got.FulfillmentType != enums.FulfillmentTypeDelivery {
		t.Fatalf("unexpected fulfillment %s", got.FulfillmentType)
	}
	if got.PaymentMethod != enums.PaymentMethodMobileMoney {
		t.Fatalf("unexpected payment %s", got.PaymentMethod)
	}
}

func TestCheckoutRejectsUnknownFulfillment(t *testing.T) {
	body := strings.NewReader(`{"fulfillmentType":"teleport","paymentMethod":"mobile_money"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	Checkout(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetMyOrderScopesToCaller(t *testing.T) {
	customerID := uuid.New()
	orderID := uuid.New()
	called := false
	svc := &testOrdersService{
		getCustomerFn: func(ctx context.Context, cid, oid uuid.UUID) (*orders.View, error) {
			called = true
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			if oid != orderID {
				t.Fatalf("unexpected order %s", oid)
			}
			return &orders.View{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	req = withIdentity(req, customerID, enums.UserRoleCustomer)
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	GetMyOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestGetMyOrderInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	req = addRouteParam(req, "orderId", "nope")
	resp := httptest.NewRecorder()
	GetMyOrder(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListMyOrdersForwardsPagination(t *testing.T) {
	var got pagination.Params
	svc := &testOrdersService{
		listCustomerFn: func(ctx context.Context, cid uuid.UUID, params pagination.Params) (*orders.List, error) {
			got = params
			return &orders.List{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&cursor=abc", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	ListMyOrders(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Limit != 10 || got.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", got)
	}
}
