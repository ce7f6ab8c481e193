package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xpense/xpense-server/internal/api/handlers"
	"github.com/xpense/xpense-server/internal/auth"
	"github.com/xpense/xpense-server/internal/services"
	"github.com/xpense/xpense-server/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	tokenService services.TokenServiceProvider,
	accountService services.AccountServiceProvider,
	transactionService services.TransactionServiceProvider,
	eventService services.EventServiceProvider,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("Hello world"))
		})

		r.Post("/users", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenService))

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", accountHandler.List)
				r.Post("/", accountHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", accountHandler.Get)
					r.Put("/", accountHandler.Update)
					r.Delete("/", accountHandler.Delete)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.List)
				r.Post("/", transactionHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", transactionHandler.Get)
					r.Put("/", transactionHandler.Update)
					r.Delete("/", transactionHandler.Delete)
				})
			})

			r.Get("/events", eventHandler.List)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
