package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kobby-jnrr/kstore-backend/api/controllers"
	"github.com/Kobby-jnrr/kstore-backend/api/middleware"
	"github.com/Kobby-jnrr/kstore-backend/internal/analytics"
	"github.com/Kobby-jnrr/kstore-backend/internal/cart"
	"github.com/Kobby-jnrr/kstore-backend/internal/notifications"
	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/internal/products"
	"github.com/Kobby-jnrr/kstore-backend/internal/promos"
	"github.com/Kobby-jnrr/kstore-backend/internal/users"
	"github.com/Kobby-jnrr/kstore-backend/pkg/auth/session"
	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	"github.com/Kobby-jnrr/kstore-backend/pkg/db"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Sessions      session.AccessSessionChecker
	Products      products.Service
	Cart          cart.Service
	Orders        orders.Service
	Notifications notifications.Service
	Promos        promos.Service
	Users         users.Service
	Analytics     analytics.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// Typed-nil redis must not reach the middleware as a live interface.
	var suspensions middleware.SuspensionChecker
	var idempotency middleware.IdempotencyStore
	var cache db.Pinger
	if deps.Redis != nil {
		suspensions = deps.Redis
		idempotency = deps.Redis
		cache = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cache))
	})

	// Browsing needs no account.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
	})
	r.Get("/api/v1/vendors/{vendorId}/products", controllers.ListVendorProducts(deps.Products, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, suspensions, logg))
		r.Use(middleware.Idempotency(idempotency, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Post("/items/{productId}/increase", controllers.CartIncreaseItem(deps.Cart, logg))
			r.Post("/items/{productId}/decrease", controllers.CartDecreaseItem(deps.Cart, logg))
			r.Put("/items/{productId}/quantity", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})
		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetMyOrder(deps.Orders, logg))
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole("vendor", logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListVendorOrders(deps.Orders, logg))
				r.Post("/{orderId}/items/{itemId}/accept", controllers.TransitionOrderItem(deps.Orders, logg, "accept"))
				r.Post("/{orderId}/items/{itemId}/reject", controllers.TransitionOrderItem(deps.Orders, logg, "reject"))
				r.Post("/{orderId}/items/{itemId}/advance", controllers.TransitionOrderItem(deps.Orders, logg, "advance"))
				r.Post("/{orderId}/deliver-all", controllers.DeliverAllOrderItems(deps.Orders, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, suspensions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(idempotency, logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.Analytics, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.Users, logg))
			r.Post("/{userId}/suspend", controllers.AdminSuspendUser(deps.Users, logg))
			r.Post("/{userId}/activate", controllers.AdminActivateUser(deps.Users, logg))
		})

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.AdminListPromos(deps.Promos, logg))
			r.Post("/", controllers.AdminActivatePromo(deps.Promos, logg))
			r.Delete("/{promoId}", controllers.AdminDeletePromo(deps.Promos, logg))
		})

		r.Post("/notifications", controllers.AdminBroadcast(deps.Notifications, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Post("/{orderId}/items/{itemId}/accept", controllers.TransitionOrderItem(deps.Orders, logg, "accept"))
			r.Post("/{orderId}/items/{itemId}/reject", controllers.TransitionOrderItem(deps.Orders, logg, "reject"))
			r.Post("/{orderId}/items/{itemId}/advance", controllers.TransitionOrderItem(deps.Orders, logg, "advance"))
			r.Post("/{orderId}/deliver-all", controllers.DeliverAllOrderItems(deps.Orders, logg))
		})
	})

	return r
}
