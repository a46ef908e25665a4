package controllers

import (
	"net/http"

	"github.com/Kobby-jnrr/kstore-backend/api/responses"
	"github.com/Kobby-jnrr/kstore-backend/api/validators"
	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type checkoutRequest struct {
	FulfillmentType string `json:"fulfillmentType" validate:"required,oneof=pickup delivery"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=cash_on_delivery mobile_money"`
}

// Checkout turns the customer's saved cart into a pending order. The cart
// is cleared on success; a multi-vendor pickup order carries a warning in
// the response.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fulfillment, err := enums.ParseFulfillmentType(payload.FulfillmentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment type"))
			return
		}
		payment, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		view, err := svc.PlaceOrder(r.Context(), orders.PlaceOrderInput{
			CustomerID:      customerID,
			FulfillmentType: fulfillment,
			PaymentMethod:   payment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
