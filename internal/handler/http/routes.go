package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixit-helpdesk/fixit/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGzip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/otp/request", h.requestOTP)
		r.Post("/api/auth/otp/verify", h.verifyOTP)

		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/health", h.health)
		r.Handle("/metrics", promhttp.Handler())
	})

	// routes for any authenticated account
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/users", h.getAllUsers)
		r.Get("/api/users/{id}", h.getUser)

		r.Get("/api/tickets", h.getAllTickets)
		r.Post("/api/tickets", h.createTicket)
		r.Get("/api/tickets/{id}", h.getTicket)
		r.Patch("/api/tickets/{id}", h.updateTicket)

		r.Get("/api/tickets/{id}/comments", h.getTicketComments)
		r.Post("/api/tickets/{id}/comments", h.addComment)
	})

	// admin-only account management
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireRole(models.RoleAdmin))

		r.Post("/api/users", h.createUser)
		r.Patch("/api/users/{id}", h.updateUser)
		r.Delete("/api/users/{id}", h.deleteUser)
		r.Delete("/api/tickets/{id}", h.deleteTicket)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
