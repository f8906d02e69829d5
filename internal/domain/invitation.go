package domain

import (
	"context"
	"time"
)

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// IsResponse reports whether s is a status an invitee may respond with.
func (s InvitationStatus) IsResponse() bool {
	return s == InvitationAccepted || s == InvitationDeclined
}

// Invitation is a creator-issued request for a user to join an event.
// swagger:model Invitation
type Invitation struct {
	ID        int64            `json:"id"`
	EventID   int64            `json:"eventId"`
	InviterID int64            `json:"inviterId"`
	InviteeID int64            `json:"inviteeId"`
	Status    InvitationStatus `json:"status"`
	SentAt    time.Time        `json:"sentAt"`
	Event     *Event           `json:"event,omitempty"`
	Inviter   *UserSummary     `json:"inviter,omitempty"`
	Invitee   *UserSummary     `json:"invitee,omitempty"`
}

// NewInvitation returns a pending invitation. ID is set by the repository on create.
func NewInvitation(eventID, inviterID, inviteeID int64, sentAt time.Time) *Invitation {
	return &Invitation{
		EventID:   eventID,
		InviterID: inviterID,
		InviteeID: inviteeID,
		Status:    InvitationPending,
		SentAt:    sentAt,
	}
}

// InvitationRepository defines storage operations for invitations. Reads by
// invitation, inviter or invitee return the invitation with Event, Inviter and
// Invitee attached.
type InvitationRepository interface {
	// Create inserts a pending invitation. It returns ErrAlreadyInvited when an
	// invitation for the same event and invitee exists, whatever its status.
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id int64) (*Invitation, error)
	ListByInviteeID(ctx context.Context, inviteeID int64) ([]*Invitation, error)
	ListByInviterID(ctx context.Context, inviterID int64) ([]*Invitation, error)
	// ListByEventID returns the event's invitations with Invitee attached.
	ListByEventID(ctx context.Context, eventID int64) ([]*Invitation, error)
	// UpdateStatus sets the invitation status. When rsvp is non-nil it is
	// upserted in the same transaction; either both writes land or neither does.
	UpdateStatus(ctx context.Context, id int64, status InvitationStatus, rsvp *RSVP) error
}

// InvitationService defines invitation operations.
type InvitationService interface {
	Send(ctx context.Context, callerID, eventID, inviteeID int64) (*Invitation, error)
	ListReceived(ctx context.Context, callerID int64) ([]*Invitation, error)
	ListSent(ctx context.Context, callerID int64) ([]*Invitation, error)
	Respond(ctx context.Context, callerID, invitationID int64, status InvitationStatus) (*Invitation, error)
	SearchUsers(ctx context.Context, callerID int64, query string) ([]*UserSummary, error)
}
