package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/api/responses"
	"github.com/kamleshjangid/bakery-backend/api/validators"
	"github.com/kamleshjangid/bakery-backend/internal/customers"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
	"github.com/kamleshjangid/bakery-backend/pkg/pagination"
)

type customerRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	GSTNumber string `json:"gst_number"`
}

type addressRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Line1      string    `json:"line1" validate:"required"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostCode   string    `json:"post_code"`

	DeliveryPolicy     string          `json:"delivery_policy" validate:"required"`
	FixedDeliveryPrice decimal.Decimal `json:"fixed_delivery_price"`
	DeliveryRuleSetID  *uuid.UUID      `json:"delivery_rule_set_id,omitempty"`
}

type deliveryDaysRequest struct {
	Weekdays []string `json:"weekdays" validate:"required"`
}

type listResponse struct {
	Rows       any    `json:"rows"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func (req addressRequest) toInput() (customers.AddressInput, error) {
	policy, err := enums.ParseDeliveryPolicy(req.DeliveryPolicy)
	if err != nil {
		return customers.AddressInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery policy")
	}
	return customers.AddressInput{
		CustomerID:         req.CustomerID,
		Line1:              req.Line1,
		City:               req.City,
		State:              req.State,
		PostCode:           req.PostCode,
		DeliveryPolicy:     policy,
		FixedDeliveryPrice: req.FixedDeliveryPrice,
		DeliveryRuleSetID:  req.DeliveryRuleSetID,
	}, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}, nil
}

// CustomerCreate adds a customer to the tenant.
func CustomerCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), adminID, customers.CustomerInput{
			Name:      payload.Name,
			Email:     payload.Email,
			Phone:     payload.Phone,
			GSTNumber: payload.GSTNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// CustomerGet returns one customer with addresses and calendars.
func CustomerGet(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CustomerList returns one cursor page of active customers.
func CustomerList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), adminID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{Rows: rows, NextCursor: next})
	}
}

// CustomerUpdate overwrites a customer's writable fields.
func CustomerUpdate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), adminID, id, customers.CustomerInput{
			Name:      payload.Name,
			Email:     payload.Email,
			Phone:     payload.Phone,
			GSTNumber: payload.GSTNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CustomerDelete deactivates a customer.
func CustomerDelete(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), adminID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "customer deleted"})
	}
}

// AddressCreate adds a delivery address to a customer.
func AddressCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.CreateAddress(r.Context(), adminID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

// AddressGet returns one address with its weekly calendar.
func AddressGet(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.GetAddress(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressUpdate overwrites an address's writable fields, including its
// delivery policy.
func AddressUpdate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.UpdateAddress(r.Context(), adminID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressSetDeliveryDays replaces an address's weekly delivery calendar.
func AddressSetDeliveryDays(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliveryDaysRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		weekdays := make([]enums.Weekday, 0, len(payload.Weekdays))
		for _, name := range payload.Weekdays {
			day, err := enums.ParseWeekday(name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid weekday"))
				return
			}
			weekdays = append(weekdays, day)
		}

		address, err := svc.SetDeliveryDays(r.Context(), adminID, id, weekdays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}
