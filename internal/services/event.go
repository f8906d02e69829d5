package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RSVPRepository
	invitationRepo domain.InvitationRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	invitationRepo domain.InvitationRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		invitationRepo: invitationRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if err := s.attachRSVPs(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) ListMine(ctx context.Context, callerID int64) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByCreatorID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	if err := s.attachRSVPs(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEnriched(ctx, id)
	if err != nil {
		return nil, err
	}
	invitations, err := s.invitationRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	event.Invitations = invitations
	return event, nil
}

func (s *eventService) Create(ctx context.Context, callerID int64, input domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if input.Title == "" || input.EventDate == nil {
		return nil, domain.Invalid("Title and event date are required")
	}

	event := domain.NewEvent(input.Title, input.Description, input.Location, *input.EventDate, callerID)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get created event: %w", err)
	}
	created.RSVPs = []*domain.RSVP{}
	return created, nil
}

func (s *eventService) Update(ctx context.Context, callerID, id int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound("get event", err)
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrEditForbidden
	}

	// An empty title means "leave unchanged".
	if patch.Title != nil && *patch.Title == "" {
		patch.Title = nil
	}
	if err := s.eventRepo.Update(ctx, id, patch); err != nil {
		return nil, wrapNotFound("update event", err)
	}
	return s.getEnriched(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound("get event", err)
	}
	if event.CreatorID != callerID {
		return domain.ErrDeleteForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return wrapNotFound("delete event", err)
	}
	return nil
}

// getEnriched returns the event with its RSVPs attached.
func (s *eventService) getEnriched(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound("get event", err)
	}
	if err := s.attachRSVPs(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// attachRSVPs loads RSVPs for all events in one query and distributes them.
func (s *eventService) attachRSVPs(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(events))
	byID := make(map[int64]*domain.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
		e.RSVPs = []*domain.RSVP{}
	}
	rsvps, err := s.rsvpRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list rsvps: %w", err)
	}
	for _, r := range rsvps {
		if e, ok := byID[r.EventID]; ok {
			e.RSVPs = append(e.RSVPs, r)
		}
	}
	return nil
}

// wrapNotFound passes domain not-found errors through unchanged so their
// client message survives, and wraps anything else with op.
func wrapNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
