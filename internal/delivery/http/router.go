package http

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	Event      *controllers.EventController
	RSVP       *controllers.RSVPController
	Invitation *controllers.InvitationController
	Health     *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// requireAuth guards every route that acts on behalf of a user.
func NewRouter(c Controllers, requireAuth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/logout", c.Auth.Logout)
	mux.HandleFunc("GET /auth/me", requireAuth(c.Auth.Me))

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{id}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", requireAuth(c.Event.CreateEvent))
	mux.HandleFunc("PUT /events/{id}", requireAuth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", requireAuth(c.Event.DeleteEvent))
	mux.HandleFunc("GET /events/user/my-events", requireAuth(c.Event.ListMyEvents))

	// RSVPs
	mux.HandleFunc("POST /events/{id}/rsvp", requireAuth(c.RSVP.RSVP))
	mux.HandleFunc("GET /events/user/rsvps", requireAuth(c.RSVP.ListMyRSVPs))

	// Invitations
	mux.HandleFunc("POST /invitations", requireAuth(c.Invitation.SendInvitation))
	mux.HandleFunc("GET /invitations/received", requireAuth(c.Invitation.ListReceived))
	mux.HandleFunc("GET /invitations/sent", requireAuth(c.Invitation.ListSent))
	mux.HandleFunc("PUT /invitations/{id}/respond", requireAuth(c.Invitation.RespondInvitation))
	mux.HandleFunc("GET /invitations/search-users", requireAuth(c.Invitation.SearchUsers))

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps mux with the middleware every request passes through:
// request ID, access logging, then CORS.
func NewHandler(mux http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
