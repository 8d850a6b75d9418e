package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/api/responses"
	"github.com/kamleshjangid/bakery-backend/api/validators"
	"github.com/kamleshjangid/bakery-backend/internal/carts"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
)

type cartLineRequest struct {
	ItemID      uuid.UUID `json:"item_id" validate:"required"`
	ItemGroupID uuid.UUID `json:"item_group_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"min=0"`
}

type cartCheckoutRequest struct {
	CustomerID   uuid.UUID         `json:"customer_id" validate:"required"`
	AddressID    uuid.UUID         `json:"address_id" validate:"required"`
	DeliveryDate string            `json:"delivery_date" validate:"required"`
	Discount     *decimal.Decimal  `json:"discount,omitempty"`
	Lines        []cartLineRequest `json:"lines"`
}

// CartCheckout accepts a full cart submission for one delivery date.
func CartCheckout(svc *carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := time.Parse("2006-01-02", payload.DeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "delivery_date must be a date (2006-01-02)"))
			return
		}

		input := carts.CheckoutInput{
			CustomerID:   payload.CustomerID,
			AddressID:    payload.AddressID,
			DeliveryDate: date,
		}
		if payload.Discount != nil {
			input.Discount = *payload.Discount
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, carts.LineInput{
				ItemID:      line.ItemID,
				ItemGroupID: line.ItemGroupID,
				Quantity:    line.Quantity,
			})
		}

		result, err := svc.Checkout(r.Context(), adminID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderResult(result.Message, result.MessageType, result.Token))
	}
}

// CartGet returns one cart with its lines.
func CartGet(svc *carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartPublish freezes a cart and stamps it with an invoice number.
func CartPublish(svc *carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Publish(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartDelete removes an unpublished cart before its delivery date.
func CartDelete(svc *carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), adminID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "cart deleted"})
	}
}

// CartDayView answers which order feeds one customer+address on one date.
func CartDayView(resolver *carts.DayResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := resolver.Resolve(r.Context(), adminID, customerID, addressID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
