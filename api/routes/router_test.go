package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/internal/analytics"
	"github.com/Kobby-jnrr/kstore-backend/internal/cart"
	"github.com/Kobby-jnrr/kstore-backend/internal/notifications"
	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/internal/products"
	"github.com/Kobby-jnrr/kstore-backend/internal/promos"
	"github.com/Kobby-jnrr/kstore-backend/internal/users"
	pkgauth "github.com/Kobby-jnrr/kstore-backend/pkg/auth"
	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct{}

func (stubProducts) List(ctx context.Context, filter products.Filter, params pagination.Params) (*products.List, error) {
	return &products.List{}, nil
}

func (stubProducts) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*products.List, error) {
	return &products.List{}, nil
}

func (stubProducts) GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return &models.Product{}, nil
}

type stubCart struct{}

func (stubCart) GetCart(ctx context.Context, customerID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) AddItem(ctx context.Context, customerID, productID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) IncreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) DecreaseItem(ctx context.Context, customerID, productID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) SetItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) Clear(ctx context.Context, customerID uuid.UUID) error {
	return nil
}

type stubOrders struct{}

func (stubOrders) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.View, error) {
	return &orders.View{}, nil
}

func (stubOrders) GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*orders.View, error) {
	return &orders.View{}, nil
}

func (stubOrders) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*orders.List, error) {
	return &orders.List{}, nil
}

func (stubOrders) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*orders.VendorOrderList, error) {
	return &orders.VendorOrderList{}, nil
}

func (stubOrders) GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.View, error) {
	return &orders.View{}, nil
}

func (stubOrders) ListAllOrders(ctx context.Context, params pagination.Params) (*orders.List, error) {
	return &orders.List{}, nil
}

func (stubOrders) TransitionItem(ctx context.Context, input orders.ItemTransitionInput) (*orders.View, error) {
	return &orders.View{}, nil
}

func (stubOrders) DeliverAll(ctx context.Context, input orders.DeliverAllInput) (int, error) {
	return 0, nil
}

func (stubOrders) AutoPassPending(ctx context.Context) (int, error) {
	return 0, nil
}

type stubNotifications struct{}

func (stubNotifications) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotifications) MarkRead(ctx context.Context, recipient notifications.Recipient, notificationID uuid.UUID) error {
	return nil
}

func (stubNotifications) MarkAllRead(ctx context.Context, recipient notifications.Recipient) (int64, error) {
	return 0, nil
}

func (stubNotifications) UnreadCountFor(ctx context.Context, recipient notifications.Recipient) (int64, error) {
	return 0, nil
}

func (stubNotifications) Broadcast(ctx context.Context, input notifications.BroadcastInput) (*notifications.NotificationView, error) {
	return &notifications.NotificationView{}, nil
}

func (stubNotifications) Insert(ctx context.Context, title, message string, target enums.NotificationTarget) error {
	return nil
}

func (stubNotifications) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubPromos struct{}

func (stubPromos) Activate(ctx context.Context, input promos.ActivateInput) (*promos.PromoView, error) {
	return &promos.PromoView{}, nil
}

func (stubPromos) List(ctx context.Context) ([]promos.PromoView, error) {
	return nil, nil
}

func (stubPromos) Delete(ctx context.Context, promoID uuid.UUID) error {
	return nil
}

func (stubPromos) ActiveVendorIDs(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (stubPromos) ExpireLapsed(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubUsers struct{}

func (stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*users.UserView, error) {
	return &users.UserView{}, nil
}

func (stubUsers) List(ctx context.Context, input users.ListInput) (*users.UserList, error) {
	return &users.UserList{}, nil
}

func (stubUsers) Suspend(ctx context.Context, userID, actorID uuid.UUID) (*users.UserView, error) {
	return &users.UserView{}, nil
}

func (stubUsers) Activate(ctx context.Context, userID, actorID uuid.UUID) (*users.UserView, error) {
	return &users.UserView{}, nil
}

type stubAnalytics struct{}

func (stubAnalytics) Dashboard(ctx context.Context, query analytics.DashboardQuery) (*analytics.DashboardView, error) {
	return &analytics.DashboardView{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "kstore-test",
			ExpirationMinutes: 15,
		},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:        testConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:            stubPinger{},
		Sessions:      stubSessions{},
		Products:      stubProducts{},
		Cart:          stubCart{},
		Orders:        stubOrders{},
		Notifications: stubNotifications{},
		Promos:        stubPromos{},
		Users:         stubUsers{},
		Analytics:     stubAnalytics{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsOpen(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyDegradesWithoutRedis(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestProductBrowsingNeedsNoAuth(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestVendorRoutesRejectCustomers(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminRoutesRejectVendors(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleVendor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminDashboardAcceptsAdmins(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
