package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/api/responses"
	"github.com/kamleshjangid/bakery-backend/api/validators"
	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
)

type ruleTierRequest struct {
	Threshold decimal.Decimal `json:"threshold"`
	Charge    decimal.Decimal `json:"charge"`
}

type ruleSetCreateRequest struct {
	Name  string            `json:"name" validate:"required"`
	Tiers []ruleTierRequest `json:"tiers" validate:"required,min=1"`
}

type ruleSetUpdateRequest struct {
	Tiers []ruleTierRequest `json:"tiers" validate:"required,min=1"`
}

func toTierInputs(tiers []ruleTierRequest) []delivery.TierInput {
	out := make([]delivery.TierInput, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, delivery.TierInput{Threshold: tier.Threshold, Charge: tier.Charge})
	}
	return out
}

// RuleSetCreate stores a named tier schedule.
func RuleSetCreate(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ruleSetCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleSet, err := svc.CreateRuleSet(r.Context(), adminID, payload.Name, toTierInputs(payload.Tiers))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ruleSet)
	}
}

// RuleSetGet returns one rule set with its tiers.
func RuleSetGet(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "ruleSetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleSet, err := svc.GetRuleSet(r.Context(), adminID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ruleSet)
	}
}

// RuleSetList returns every rule set for the tenant.
func RuleSetList(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleSets, err := svc.ListRuleSets(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ruleSets)
	}
}

// RuleSetUpdate replaces a rule set's price breaks.
func RuleSetUpdate(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "ruleSetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ruleSetUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleSet, err := svc.UpdateRuleSetTiers(r.Context(), adminID, id, toTierInputs(payload.Tiers))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ruleSet)
	}
}

// RuleSetDelete removes a rule set.
func RuleSetDelete(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "ruleSetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRuleSet(r.Context(), adminID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "rule set deleted"})
	}
}

// NextDeliveryDate resolves the next deliverable date for an address.
func NextDeliveryDate(svc *delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := adminIDFrom(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := svc.NextDate(r.Context(), addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"next_delivery_date": next.Format("2006-01-02")})
	}
}
