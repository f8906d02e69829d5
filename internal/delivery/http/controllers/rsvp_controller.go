package controllers

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// RSVPRequest is the request body for POST /events/{id}/rsvp.
type RSVPRequest struct {
	Response string `json:"response" enums:"attending,not_attending,maybe"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// RSVP godoc
// @Summary RSVP to an event
// @Description Creates or overwrites the caller's single RSVP for the event. Any authenticated user may RSVP, including the creator.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param rsvp body RSVPRequest true "Response"
// @Success 200 {object} domain.RSVP
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id}/rsvp [post]
func (c *RSVPController) RSVP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	eventID, ok := helpers.ParseID(r, "id")
	if !ok {
		helpers.WriteServiceError(w, r, c.Logger, domain.ErrEventNotFound)
		return
	}
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.Upsert(r.Context(), userID, eventID, domain.RSVPResponse(req.Response))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rsvp)
}

// ListMyRSVPs godoc
// @Summary List the caller's RSVPs
// @Description Each RSVP carries its event with creator and attendeeCount, ordered by eventDate ascending.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.RSVP
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/user/rsvps [get]
func (c *RSVPController) ListMyRSVPs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rsvps, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rsvps)
}
