package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// terminal-facing routes
		r.Post("/tag", h.TagHandler)
		r.Post("/uid/register", h.RegisterUIDHandler)
		r.Get("/health", h.HealthHandler)
		r.Get("/status", h.StatusHandler)
		r.Get("/access/check", h.AccessCheckHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Post("/uid/approve", h.ApproveUIDHandler)
			r.Get("/logs", h.LogsHandler)
			r.Get("/devices", h.DevicesHandler)
			r.Get("/registrations", h.RegistrationsHandler)
			r.Get("/stats", h.StatsHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": 8003041,
		"exp":        expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}
