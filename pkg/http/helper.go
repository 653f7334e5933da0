package http

import (
	"encoding/json"
	"net/http"

	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/middleware"
	"tourbook/pkg/token"
)

// ReadJSON decodes the request body into dst, rejecting unknown fields.
func ReadJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.InvalidInput("Invalid request body: " + err.Error())
	}
	return nil
}

// QueryMap flattens the request query into the list-query input contract:
// one value per key, repeated keys keep the first occurrence.
func QueryMap(r *http.Request) map[string]string {
	values := r.URL.Query()
	out := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}

// RequireClaims pulls the authenticated claims from the context.
func RequireClaims(r *http.Request) (*token.Claims, error) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequireRole additionally checks the caller's role against the allowed set.
func RequireRole(r *http.Request, roles ...string) (*token.Claims, error) {
	claims, err := RequireClaims(r)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if claims.Role == role {
			return claims, nil
		}
	}
	return nil, apperrors.Forbidden("Insufficient permissions")
}
