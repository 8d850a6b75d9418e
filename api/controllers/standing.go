package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kamleshjangid/bakery-backend/api/responses"
	"github.com/kamleshjangid/bakery-backend/api/validators"
	"github.com/kamleshjangid/bakery-backend/internal/standing"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
)

type standingLineRequest struct {
	ItemID      uuid.UUID              `json:"item_id" validate:"required"`
	ItemGroupID uuid.UUID              `json:"item_group_id" validate:"required"`
	Quantities  [enums.DaysPerWeek]int `json:"quantities"`
}

type standingUpsertRequest struct {
	CustomerID   uuid.UUID             `json:"customer_id" validate:"required"`
	AddressID    uuid.UUID             `json:"address_id" validate:"required"`
	DeliveryOn   []string              `json:"delivery_on"`
	DeliveryType []string              `json:"delivery_type"`
	Lines        []standingLineRequest `json:"lines"`
}

type orderResultResponse struct {
	Message string `json:"message"`
	Data    struct {
		MessageType string    `json:"messageType"`
		Token       uuid.UUID `json:"token"`
	} `json:"data"`
}

func orderResult(message string, messageType enums.MessageType, token uuid.UUID) orderResultResponse {
	var out orderResultResponse
	out.Message = message
	out.Data.MessageType = messageType.String()
	out.Data.Token = token
	return out
}

// StandingUpsert accepts a full standing-order submission for one
// customer+address pair.
func StandingUpsert(svc *standing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload standingUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryOn, err := parseWeekdays(payload.DeliveryOn)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deliveryType, err := parseWeekdays(payload.DeliveryType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := standing.UpsertInput{
			CustomerID:   payload.CustomerID,
			AddressID:    payload.AddressID,
			DeliveryOn:   deliveryOn,
			DeliveryType: deliveryType,
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, standing.LineInput{
				ItemID:      line.ItemID,
				ItemGroupID: line.ItemGroupID,
				Quantities:  line.Quantities,
			})
		}

		result, err := svc.Upsert(r.Context(), adminID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderResult(result.Message, result.MessageType, result.Token))
	}
}

// StandingGet returns one standing order with its lines.
func StandingGet(svc *standing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// StandingGetByPair returns the standing order for a customer+address pair.
func StandingGetByPair(svc *standing.Service, logg *logger.Logger) http.HandlerFunc {
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

		order, err := svc.GetByPair(r.Context(), adminID, customerID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// StandingDelete removes a standing order.
func StandingDelete(svc *standing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), adminID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "standing order deleted"})
	}
}
