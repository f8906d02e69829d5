package controllers

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// SendInvitationRequest is the request body for POST /invitations.
type SendInvitationRequest struct {
	EventID   int64 `json:"eventId"`
	InviteeID int64 `json:"inviteeId"`
}

// RespondInvitationRequest is the request body for PUT /invitations/{id}/respond.
type RespondInvitationRequest struct {
	Status string `json:"status" enums:"accepted,declined"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// SendInvitation godoc
// @Summary Invite a user to an event
// @Description Only the event creator may invite. A user can be invited to an event once.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation body SendInvitationRequest true "Event and invitee"
// @Success 201 {object} domain.Invitation
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /invitations [post]
func (c *InvitationController) SendInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req SendInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Send(r.Context(), userID, req.EventID, req.InviteeID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, inv)
}

// ListReceived godoc
// @Summary List invitations received by the caller
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Invitation
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /invitations/received [get]
func (c *InvitationController) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	invs, err := c.Service.ListReceived(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, invs)
}

// ListSent godoc
// @Summary List invitations sent by the caller
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Invitation
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /invitations/sent [get]
func (c *InvitationController) ListSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	invs, err := c.Service.ListSent(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, invs)
}

// RespondInvitation godoc
// @Summary Accept or decline an invitation
// @Description Accepting also records an attending RSVP in the same transaction. Declining leaves any RSVP unchanged.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Param response body RespondInvitationRequest true "New status"
// @Success 200 {object} domain.Invitation
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /invitations/{id}/respond [put]
func (c *InvitationController) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := helpers.ParseID(r, "id")
	if !ok {
		helpers.WriteServiceError(w, r, c.Logger, domain.ErrInvitationNotFound)
		return
	}
	var req RespondInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Respond(r.Context(), userID, id, domain.InvitationStatus(req.Status))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, inv)
}

// SearchUsers godoc
// @Summary Search users to invite
// @Description Case-insensitive match on username or email, at most 10 results, never including the caller.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text, at least 2 characters"
// @Success 200 {array} domain.UserSummary
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /invitations/search-users [get]
func (c *InvitationController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	users, err := c.Service.SearchUsers(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}
