package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Kobby-jnrr/kstore-backend/api/responses"
	pkgauth "github.com/Kobby-jnrr/kstore-backend/pkg/auth"
	"github.com/Kobby-jnrr/kstore-backend/pkg/auth/session"
	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

// SuspensionChecker reports whether the account has a moderation marker.
type SuspensionChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
	SuspensionKey(userID string) string
}

// Auth validates a bearer token, verifies the session is still live, and
// seeds the request context with the claims. Suspended accounts are
// rejected even while their token is still valid.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, suspensions SuspensionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
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
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if sessions != nil {
				ok, err := sessions.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			if suspensions != nil {
				suspended, err := suspensions.Exists(r.Context(), suspensions.SuspensionKey(claims.UserID.String()))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check account status"))
					return
				}
				if suspended {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account suspended"))
					return
				}
			}

			ctx := WithIdentity(r.Context(), claims.UserID.String(), string(claims.Role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
