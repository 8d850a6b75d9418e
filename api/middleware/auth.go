package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kamleshjangid/bakery-backend/api/responses"
	pkgauth "github.com/kamleshjangid/bakery-backend/pkg/auth"
	"github.com/kamleshjangid/bakery-backend/pkg/config"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the tenant.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.AdminID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant id"))
				return
			}

			ctx := WithAdminID(r.Context(), claims.AdminID.String())
			if logg != nil {
				ctx = logg.WithAdminID(ctx, claims.AdminID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
