package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/secondchance-api/internal/application/auth"
	"github.com/secondchance-api/internal/application/item"
	"github.com/secondchance-api/internal/config"
	"github.com/secondchance-api/internal/transport/http/handler"
	appmiddleware "github.com/secondchance-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "email"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider, deps.Mailer)
	itemSvc := item.NewService(deps.ItemRepo, deps.GiftRepo, deps.ImageStore)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	itemH := handler.NewItemHandler(itemSvc)

	// 5 requests/second with a burst of 10 on the credential endpoints.
	credRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Get("/health-check/ping", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.With(credRL.Limit).Post("/register", authH.Register)
		r.With(credRL.Limit).Post("/login", authH.Login)
		r.With(appmiddleware.Auth(deps.JWTProvider)).Put("/update", authH.UpdateProfile)
	})

	r.Get("/search", itemH.Search)

	r.Route("/secondChanceItems", func(r chi.Router) {
		r.Get("/", itemH.List)
		r.Post("/", itemH.Create)
		r.Get("/{id}", itemH.Get)
		r.Put("/{id}", itemH.Update)
		r.Delete("/{id}", itemH.Delete)
	})

	return r
}
