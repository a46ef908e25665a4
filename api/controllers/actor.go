package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/api/middleware"
	"github.com/Kobby-jnrr/kstore-backend/api/validators"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

// actorFromRequest extracts the authenticated identity the middleware
// seeded.
func actorFromRequest(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}
	return userID, role, nil
}

func paginationFromRequest(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
