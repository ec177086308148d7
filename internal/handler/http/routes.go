package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization: signup, login and the user directory
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)

		r.Get("/api/users", h.listUsers)
		r.Get("/api/users/search", h.searchUsers)
		r.Get("/api/users/email/{email}", h.userByEmail)
		r.Get("/api/users/{userID}", h.userByID)
	})

	// routes behind bearer authentication
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/me", h.me)

		r.Put("/api/users/profile", h.updateProfile)
		r.Post("/api/users/follow/{email}", h.follow)
		r.Delete("/api/users/follow/{email}", h.unfollow)

		r.Post("/api/messages/send", h.sendMessage)
		r.Get("/api/messages/conversation/{email}", h.conversation)
		r.Get("/api/messages/conversations", h.conversations)
		r.Get("/api/messages/unread", h.unreadMessages)
		r.Put("/api/messages/{messageID}/read", h.markMessageRead)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
