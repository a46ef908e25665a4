package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/api/responses"
	"github.com/Kobby-jnrr/kstore-backend/api/validators"
	"github.com/Kobby-jnrr/kstore-backend/internal/analytics"
	"github.com/Kobby-jnrr/kstore-backend/internal/notifications"
	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/internal/promos"
	"github.com/Kobby-jnrr/kstore-backend/internal/users"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type broadcastRequest struct {
	Title   string `json:"title" validate:"required,max=120"`
	Message string `json:"message" validate:"required,max=2000"`
	Target  string `json:"target" validate:"required,oneof=vendor customer both"`
}

type activatePromoRequest struct {
	VendorID      uuid.UUID `json:"vendorId" validate:"required"`
	DurationHours int       `json:"durationHours" validate:"omitempty,min=1,max=720"`
}

// AdminDashboard aggregates order, revenue and account metrics over an
// optional time window. Bounds come in as RFC3339 query parameters.
func AdminDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		query := analytics.DashboardQuery{}
		var err error
		if query.From, err = parseTimeQuery(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if query.To, err = parseTimeQuery(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Dashboard(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminListUsers pages through accounts with optional role and status
// filters.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), users.ListInput{
			Role:   r.URL.Query().Get("role"),
			Status: r.URL.Query().Get("status"),
			Limit:  params.Limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminSuspendUser suspends an account and invalidates its live sessions.
func AdminSuspendUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return adminUserStatusHandler(svc, logg, func(r *http.Request, userID, actorID uuid.UUID) (*users.UserView, error) {
		return svc.Suspend(r.Context(), userID, actorID)
	})
}

// AdminActivateUser lifts a suspension.
func AdminActivateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return adminUserStatusHandler(svc, logg, func(r *http.Request, userID, actorID uuid.UUID) (*users.UserView, error) {
		return svc.Activate(r.Context(), userID, actorID)
	})
}

func adminUserStatusHandler(svc users.Service, logg *logger.Logger, apply func(r *http.Request, userID, actorID uuid.UUID) (*users.UserView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := apply(r, userID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminListPromos returns every promo, active or not.
func AdminListPromos(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminActivatePromo boosts one vendor's catalog for the requested window.
func AdminActivatePromo(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req activatePromoRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Activate(r.Context(), promos.ActivateInput{
			VendorID:  req.VendorID,
			CreatedBy: actorID,
			Duration:  time.Duration(req.DurationHours) * time.Hour,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminDeletePromo removes a promo outright, ending the boost immediately.
func AdminDeletePromo(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}
		promoID, err := validators.ParsePathUUID(chi.URLParam(r, "promoId"), "promoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), promoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "deleted"})
	}
}

// AdminBroadcast publishes a notification to vendors, customers or both.
func AdminBroadcast(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req broadcastRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseNotificationTarget(req.Target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification target"))
			return
		}

		view, err := svc.Broadcast(r.Context(), notifications.BroadcastInput{
			Title:     req.Title,
			Message:   req.Message,
			Target:    target,
			CreatedBy: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminListOrders pages through every order on the platform.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListAllOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminGetOrder returns any order without ownership checks.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be an RFC3339 timestamp").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
