package domain

import (
	"context"
	"time"
)

// Event represents a planned event owned by its creator.
// swagger:model Event
type Event struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   *string       `json:"description"`
	Location      *string       `json:"location"`
	EventDate     time.Time     `json:"eventDate"`
	CreatorID     int64         `json:"creatorId"`
	Creator       *UserSummary  `json:"creator,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Invitations   []*Invitation `json:"invitations,omitzero"`
	RSVPs         []*RSVP       `json:"rsvps,omitzero"`
	AttendeeCount int           `json:"attendeeCount"`
}

// NewEvent returns a new Event. ID and timestamps are set by the repository on create.
func NewEvent(title string, description, location *string, eventDate time.Time, creatorID int64) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		CreatorID:   creatorID,
	}
}

// EventInput holds the fields accepted when creating an event.
type EventInput struct {
	Title       string
	Description *string
	Location    *string
	EventDate   *time.Time
}

// EventPatch holds a partial update. Title and EventDate are applied only when
// non-empty. Description and Location are applied whenever their Set flag is
// true, including to nil (clearing the column) or "".
type EventPatch struct {
	Title          *string
	EventDate      *time.Time
	Description    *string
	DescriptionSet bool
	Location       *string
	LocationSet    bool
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.EventDate == nil && !p.DescriptionSet && !p.LocationSet
}

// EventRepository defines the interface for event storage. Events returned by
// reads carry Creator and a freshly computed AttendeeCount.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByCreatorID(ctx context.Context, creatorID int64) ([]*Event, error)
	Update(ctx context.Context, id int64, patch EventPatch) error
	// Delete removes the event together with its invitations and RSVPs in one transaction.
	Delete(ctx context.Context, id int64) error
}

// EventService defines the business logic for events.
type EventService interface {
	ListAll(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	ListMine(ctx context.Context, callerID int64) ([]*Event, error)
	Create(ctx context.Context, callerID int64, input EventInput) (*Event, error)
	Update(ctx context.Context, callerID, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, callerID, id int64) error
}
