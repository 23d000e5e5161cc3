package handler

import (
	"encoding/json"
	"net/http"

	"sweetshop/internal/api/middleware"
	"sweetshop/internal/app/service"
	"sweetshop/internal/common"

	"github.com/go-chi/chi/v5"
)

// UserHandler exposes role administration. Role changes used to require a
// direct database edit; this endpoint replaces that, gated to superadmins.
type UserHandler struct {
	authService *service.AuthService
	auth        *middleware.AuthMiddleware
}

func NewUserHandler(authService *service.AuthService, auth *middleware.AuthMiddleware) *UserHandler {
	return &UserHandler{authService: authService, auth: auth}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(superAdminRouter chi.Router) {
		superAdminRouter.Use(h.auth.Authenticator)
		superAdminRouter.Use(h.auth.SuperAdminOnly)
		superAdminRouter.Put("/{username}/role", h.changeRole)
	})
}

func (h *UserHandler) changeRole(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.authService.ChangeRole(r.Context(), username, req.Role)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
