package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"sweetshop/internal/api/middleware"
	"sweetshop/internal/app/service"
	"sweetshop/internal/common"
	"sweetshop/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type SweetHandler struct {
	sweetService *service.SweetService
	auth         *middleware.AuthMiddleware
}

func NewSweetHandler(sweetService *service.SweetService, auth *middleware.AuthMiddleware) *SweetHandler {
	return &SweetHandler{sweetService: sweetService, auth: auth}
}

func (h *SweetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)              // GET /api/sweets
	r.Get("/search", h.search)      // GET /api/sweets/search
	r.Get("/{sweetID}", h.get)      // GET /api/sweets/{id}

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(h.auth.Authenticator)
		authRouter.Post("/{sweetID}/purchase", h.purchase)
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(h.auth.Authenticator)
		adminRouter.Use(h.auth.AdminOnly)
		adminRouter.Post("/", h.create)
		adminRouter.Put("/{sweetID}", h.update)
		adminRouter.Post("/{sweetID}/restock", h.restock)
		adminRouter.Delete("/{sweetID}", h.delete)
		adminRouter.Get("/{sweetID}/history", h.history)
	})
}

func (h *SweetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sweet, err := h.sweetService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sweet)
}

func (h *SweetHandler) list(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweetService.List(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweets)
}

func (h *SweetHandler) get(w http.ResponseWriter, r *http.Request) {
	sweet, err := h.sweetService.Get(r.Context(), chi.URLParam(r, "sweetID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) search(w http.ResponseWriter, r *http.Request) {
	filter := model.SweetFilter{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	}

	for param, dest := range map[string]**float64{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid "+param+": "+raw)
			return
		}
		*dest = &value
	}

	sweets, err := h.sweetService.Search(r.Context(), filter)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweets)
}

func (h *SweetHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch model.SweetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sweet, err := h.sweetService.Update(r.Context(), chi.URLParam(r, "sweetID"), patch)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) purchase(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	amount, err := decodeAmount(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sweet, err := h.sweetService.Purchase(r.Context(), chi.URLParam(r, "sweetID"), amount, user.ID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) restock(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	amount, err := decodeAmount(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sweet, err := h.sweetService.Restock(r.Context(), chi.URLParam(r, "sweetID"), amount, user.ID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sweetService.Delete(r.Context(), chi.URLParam(r, "sweetID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Sweet deleted")
}

func (h *SweetHandler) history(w http.ResponseWriter, r *http.Request) {
	events, err := h.sweetService.History(r.Context(), chi.URLParam(r, "sweetID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}

// decodeAmount reads an optional {"amount": n} body. A missing body or
// omitted field means 1.
func decodeAmount(r *http.Request) (int, error) {
	var req struct {
		Amount *int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return 1, nil
		}
		return 0, err
	}
	if req.Amount == nil {
		return 1, nil
	}
	return *req.Amount, nil
}
