package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

const (
	minSearchQueryLen = 2
	searchResultLimit = 10
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewInvitationService(invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *invitationService) Send(ctx context.Context, callerID, eventID, inviteeID int64) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == 0 || inviteeID == 0 {
		return nil, domain.Invalid("Event ID and invitee ID are required")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapNotFound("get event", err)
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrNotInviter
	}
	if _, err := s.userRepo.GetByID(ctx, inviteeID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInviteeNotFound
		}
		return nil, wrapNotFound("get invitee", err)
	}

	inv := domain.NewInvitation(eventID, callerID, inviteeID, time.Now().UTC())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrAlreadyInvited) {
			return nil, err
		}
		return nil, wrapNotFound("create invitation", err)
	}

	created, err := s.invitationRepo.GetByID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get created invitation: %w", err)
	}
	return created, nil
}

func (s *invitationService) ListReceived(ctx context.Context, callerID int64) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, err := s.invitationRepo.ListByInviteeID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list received invitations: %w", err)
	}
	return invs, nil
}

func (s *invitationService) ListSent(ctx context.Context, callerID int64) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, err := s.invitationRepo.ListByInviterID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list sent invitations: %w", err)
	}
	return invs, nil
}

func (s *invitationService) Respond(ctx context.Context, callerID, invitationID int64, status domain.InvitationStatus) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.IsResponse() {
		return nil, domain.Invalid("Invalid response status")
	}

	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, wrapNotFound("get invitation", err)
	}
	if inv.InviteeID != callerID {
		return nil, domain.ErrNotInvitee
	}

	var rsvp *domain.RSVP
	if status == domain.InvitationAccepted {
		rsvp = domain.NewRSVP(inv.EventID, callerID, domain.RSVPAttending, time.Now().UTC())
	}
	if err := s.invitationRepo.UpdateStatus(ctx, invitationID, status, rsvp); err != nil {
		return nil, wrapNotFound("update invitation status", err)
	}

	updated, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, wrapNotFound("get invitation", err)
	}
	return updated, nil
}

func (s *invitationService) SearchUsers(ctx context.Context, callerID int64, query string) ([]*domain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len([]rune(query)) < minSearchQueryLen {
		return nil, domain.Invalid("Search query must be at least 2 characters")
	}
	users, err := s.userRepo.Search(ctx, query, callerID, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}
