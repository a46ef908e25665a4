package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Kobby-jnrr/kstore-backend/api/responses"
	"github.com/Kobby-jnrr/kstore-backend/api/validators"
	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type transitionRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ListVendorOrders pages through orders that carry at least one of the
// vendor's items. Foreign vendors' lines are masked by the service.
func ListVendorOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		vendorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListVendorOrders(r.Context(), vendorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TransitionOrderItem moves a single order item through accept, reject or
// advance. The action comes from the route, not the body. Vendors act on
// their own items; admins act on any.
func TransitionOrderItem(svc orders.Service, logg *logger.Logger, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := transitionInputFromRequest(r, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ActorUserID = actorID
		input.ActorRole = role
		if role == enums.UserRoleVendor {
			vendorID := actorID
			input.ActorVendor = &vendorID
		}

		view, err := svc.TransitionItem(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeliverAllOrderItems advances every advanceable item on the order by one
// step.
func DeliverAllOrderItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.DeliverAllInput{
			OrderID:     orderID,
			ActorUserID: actorID,
			ActorRole:   role,
		}
		if role == enums.UserRoleVendor {
			vendorID := actorID
			input.ActorVendor = &vendorID
		}

		advanced, err := svc.DeliverAll(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"advanced": advanced})
	}
}

func transitionInputFromRequest(r *http.Request, action string) (*orders.ItemTransitionInput, error) {
	orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
	if err != nil {
		return nil, err
	}
	itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
	if err != nil {
		return nil, err
	}

	return &orders.ItemTransitionInput{
		OrderID: orderID,
		ItemID:  itemID,
		Action:  action,
		Notes:   transitionNotes(r),
	}, nil
}

// transitionNotes tolerates an absent or empty body; notes are optional on
// every transition.
func transitionNotes(r *http.Request) *string {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	var req transitionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		return nil
	}
	if req.Notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*req.Notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
