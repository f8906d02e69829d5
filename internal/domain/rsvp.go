package domain

import (
	"context"
	"time"
)

// RSVPResponse is a user's attendance answer.
type RSVPResponse string

const (
	RSVPAttending    RSVPResponse = "attending"
	RSVPNotAttending RSVPResponse = "not_attending"
	RSVPMaybe        RSVPResponse = "maybe"
)

// Valid reports whether r is one of the allowed responses.
func (r RSVPResponse) Valid() bool {
	switch r {
	case RSVPAttending, RSVPNotAttending, RSVPMaybe:
		return true
	}
	return false
}

// RSVP is a user's single current attendance response to an event.
// swagger:model RSVP
type RSVP struct {
	ID          int64        `json:"id"`
	EventID     int64        `json:"eventId"`
	UserID      int64        `json:"userId"`
	Response    RSVPResponse `json:"response"`
	RespondedAt time.Time    `json:"respondedAt"`
	Event       *Event       `json:"event,omitempty"`
	User        *UserSummary `json:"user,omitempty"`
}

// NewRSVP returns an RSVP. ID is set by the repository on upsert.
func NewRSVP(eventID, userID int64, response RSVPResponse, respondedAt time.Time) *RSVP {
	return &RSVP{
		EventID:     eventID,
		UserID:      userID,
		Response:    response,
		RespondedAt: respondedAt,
	}
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Upsert writes the (EventID, UserID) row, overwriting response and
	// respondedAt when it already exists. ID and User are filled in on success.
	Upsert(ctx context.Context, rsvp *RSVP) error
	// ListByUserID returns the user's RSVPs with Event attached, ordered by event date.
	ListByUserID(ctx context.Context, userID int64) ([]*RSVP, error)
	// ListByEventIDs returns RSVPs for the given events with User attached.
	ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*RSVP, error)
}

// RSVPService defines attendance operations.
type RSVPService interface {
	Upsert(ctx context.Context, callerID, eventID int64, response RSVPResponse) (*RSVP, error)
	ListMine(ctx context.Context, callerID int64) ([]*RSVP, error)
}
