package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"honors_gwa/backend/internal/gateway/handlers"
	"honors_gwa/backend/internal/gateway/util"
	"honors_gwa/backend/internal/shared"
)

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(clients *ServiceClients, corsCfg shared.CORSConfig) *chi.Mux {
	r := chi.NewRouter()
	metrics := NewMetrics()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: clients.Auth}
	honorsHandler := &handlers.HonorsHandler{Honors: clients.Honors}

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": "ok"})
	})

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/login", authHandler.Login)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(clients.Auth))

			r.Get("/auth/validate", authHandler.ValidateToken)

			r.Route("/honors", func(r chi.Router) {
				// Student
				r.Get("/eligibility", honorsHandler.CheckEligibility)
				r.Get("/gwa/current", honorsHandler.GetCurrentGWA)
				r.Get("/gwa/application", honorsHandler.GetApplicationGWA)
				r.Get("/gwa/overall", honorsHandler.GetOverallGWA)
				r.Post("/applications", honorsHandler.SubmitApplication)

				// Faculty and admin
				r.Patch("/applications/{id}/status", honorsHandler.UpdateApplicationStatus)
				r.Get("/rankings", honorsHandler.GetRankings)
			})
		})
	})

	return r
}

// AuthMiddleware verifies the bearer token and stores the caller identity
// on the request context.
func AuthMiddleware(tokens handlers.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := shared.WithRequestContext(r.Context(), claims.RequestContext())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
