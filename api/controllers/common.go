package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kamleshjangid/bakery-backend/api/middleware"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
)

// adminIDFrom resolves the tenant seeded by the auth middleware.
func adminIDFrom(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AdminIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context missing")
	}
	adminID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid tenant id")
	}
	return adminID, nil
}

// parseWeekdays converts weekday names ("mon".."sun") into the flag array.
func parseWeekdays(names []string) ([enums.DaysPerWeek]bool, error) {
	var flags [enums.DaysPerWeek]bool
	for _, name := range names {
		day, err := enums.ParseWeekday(name)
		if err != nil {
			return flags, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid weekday")
		}
		flags[day] = true
	}
	return flags, nil
}
