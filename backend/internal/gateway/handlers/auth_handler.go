package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"honors_gwa/backend/internal/auth"
	"honors_gwa/backend/internal/gateway/util"
	"honors_gwa/backend/internal/shared"
)

// Authenticator issues and parses gateway tokens
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*auth.LoginResult, error)
	ParseToken(token string) (*auth.CustomClaims, error)
}

// AuthHandler serves login and token validation
type AuthHandler struct {
	Auth Authenticator
}

// RESTLoginRequest mirrors the expected JSON input for /auth/login
type RESTLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if err := util.DecodeJSON(r, &reqBody); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, reqBody.Identifier, reqBody.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		util.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, auth.ErrInactive):
		util.WriteJSONError(w, http.StatusForbidden, "Account is inactive")
		return
	case err != nil:
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user":       res.User,
	})
}

// ValidateToken handles GET /auth/validate. The auth middleware has already
// verified the token, so this only echoes the caller identity.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	rc, ok := shared.RequestContextFrom(r.Context())
	if !ok {
		util.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"valid":   false,
			"message": "Authorization token missing or invalid format",
		})
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"valid":   true,
		"user":    rc,
		"message": "Token is valid",
	})
}
