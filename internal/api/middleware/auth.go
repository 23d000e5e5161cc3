package middleware

import (
	"context"
	"errors"
	"net/http"

	"sweetshop/internal/common"
	"sweetshop/internal/common/security"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const userCtxKey contextKey = "currentUser"

// AuthMiddleware resolves the requesting principal: it takes the claims the
// jwtauth verifier placed in the request context, then loads the user from
// the registry so authorization always sees the current role, not the one
// frozen into the token.
type AuthMiddleware struct {
	userRepo repository.UserRepository
}

func NewAuthMiddleware(userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo}
}

func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			// Covers missing, malformed, badly signed and expired tokens;
			// the caller learns nothing about which check failed.
			common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		username, err := security.GetSubjectFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		user, err := m.userRepo.FindByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			common.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve user")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly requires an admin or superadmin principal. It must be composed
// after Authenticator so missing credentials yield 401, not 403.
func (m *AuthMiddleware) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SuperAdminOnly gates role administration.
func (m *AuthMiddleware) SuperAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok || user.Role != model.RoleSuperAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the principal resolved by Authenticator.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok
}
