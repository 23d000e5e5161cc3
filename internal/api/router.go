package api

import (
	"net/http"
	"time"

	"sweetshop/internal/api/handler"
	"sweetshop/internal/api/middleware"
	"sweetshop/internal/app/service"
	"sweetshop/internal/common/security"
	"sweetshop/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokenAuth *security.TokenAuth,
	authService *service.AuthService,
	sweetService *service.SweetService,
	userRepo repository.UserRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses and validates a bearer token when present; route groups decide
	// whether a valid token is actually required.
	r.Use(jwtauth.Verifier(tokenAuth.JWTAuth()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/auth", authHandler.RegisterRoutes)

		// Catalog routes (public reads, authenticated purchase, admin writes)
		sweetHandler := handler.NewSweetHandler(sweetService, authMiddleware)
		apiRouter.Route("/sweets", sweetHandler.RegisterRoutes)

		// Role administration (superadmin)
		userHandler := handler.NewUserHandler(authService, authMiddleware)
		apiRouter.Route("/users", userHandler.RegisterRoutes)
	})

	return r
}
