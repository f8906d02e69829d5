package services

import (
	"context"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

type rsvpService struct {
	rsvpRepo       domain.RSVPRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewRSVPService(rsvpRepo domain.RSVPRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:       rsvpRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *rsvpService) Upsert(ctx context.Context, callerID, eventID int64, response domain.RSVPResponse) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !response.Valid() {
		return nil, domain.Invalid("Invalid RSVP response")
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, wrapNotFound("get event", err)
	}

	rsvp := domain.NewRSVP(eventID, callerID, response, time.Now().UTC())
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, wrapNotFound("upsert rsvp", err)
	}
	return rsvp, nil
}

func (s *rsvpService) ListMine(ctx context.Context, callerID int64) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rsvps, err := s.rsvpRepo.ListByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return rsvps, nil
}
