package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"confbooking/internal/delivery/http/controllers"
	"confbooking/internal/delivery/http/middleware"
	"confbooking/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	conferenceController *controllers.ConferenceController,
	bookingController *controllers.BookingController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Conferences
	mux.HandleFunc("GET /conferences/active", optionalAuth(conferenceController.GetActive))
	mux.HandleFunc("GET /conferences", conferenceController.List)
	mux.HandleFunc("POST /conferences", requireAuth(conferenceController.Create))
	mux.HandleFunc("GET /conferences/{conferenceID}", conferenceController.GetByID)
	mux.HandleFunc("PUT /conferences/{conferenceID}", requireAuth(conferenceController.Update))
	mux.HandleFunc("DELETE /conferences/{conferenceID}", requireAuth(conferenceController.Delete))

	// Booking
	mux.HandleFunc("POST /conferences/booking", requireAuth(bookingController.BookConference))
	mux.HandleFunc("GET /orders/{orderID}/conference", requireAuth(conferenceController.GetByOrderID))

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
