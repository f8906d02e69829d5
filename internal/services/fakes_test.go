package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventplanner/internal/domain"
)

// memStore backs the in-memory repositories below so that derived values such
// as attendeeCount and the uniqueness rules behave like the real store.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*domain.User
	events      map[int64]*domain.Event
	invitations map[int64]*domain.Invitation
	rsvps       map[int64]*domain.RSVP

	// upsertErr, when set, makes every RSVP upsert fail, including the one
	// inside UpdateStatus.
	upsertErr error
	// listErr, when set, is returned by every list query.
	listErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*domain.User),
		events:      make(map[int64]*domain.Event),
		invitations: make(map[int64]*domain.Invitation),
		rsvps:       make(map[int64]*domain.RSVP),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(username, email string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.NewUser(username, email, "hashed:secret", time.Now())
	u.ID = s.id()
	s.users[u.ID] = u
	return u
}

func (s *memStore) addEvent(title string, date time.Time, creatorID int64) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := domain.NewEvent(title, nil, nil, date, creatorID)
	e.ID = s.id()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	s.events[e.ID] = e
	return e
}

func (s *memStore) rsvpFor(eventID, userID int64) *domain.RSVP {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rsvps {
		if r.EventID == eventID && r.UserID == userID {
			cp := *r
			return &cp
		}
	}
	return nil
}

func (s *memStore) countRSVPs(eventID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rsvps {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *memStore) countInvitations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invitations)
}

// enrichedEvent returns a copy of the event with creator and attendee count.
// Caller holds mu.
func (s *memStore) enrichedEvent(id int64) (*domain.Event, bool) {
	e, ok := s.events[id]
	if !ok {
		return nil, false
	}
	cp := *e
	cp.Invitations = nil
	cp.RSVPs = nil
	if u, ok := s.users[cp.CreatorID]; ok {
		cp.Creator = u.Summary()
	}
	cp.AttendeeCount = 0
	for _, r := range s.rsvps {
		if r.EventID == id && r.Response == domain.RSVPAttending {
			cp.AttendeeCount++
		}
	}
	return &cp, true
}

// upsert writes the (event, user) RSVP. Caller holds mu.
func (s *memStore) upsert(rsvp *domain.RSVP) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if _, ok := s.events[rsvp.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	u, ok := s.users[rsvp.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, r := range s.rsvps {
		if r.EventID == rsvp.EventID && r.UserID == rsvp.UserID {
			r.Response = rsvp.Response
			r.RespondedAt = rsvp.RespondedAt
			rsvp.ID = r.ID
			rsvp.User = &domain.UserSummary{ID: u.ID, Username: u.Username}
			return nil
		}
	}
	rsvp.ID = s.id()
	stored := *rsvp
	s.rsvps[stored.ID] = &stored
	rsvp.User = &domain.UserSummary{ID: u.ID, Username: u.Username}
	return nil
}

type fakeEventRepo struct{ s *memStore }

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e.ID = f.s.id()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.s.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.enrichedEvent(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	return f.list(func(*domain.Event) bool { return true })
}

func (f *fakeEventRepo) ListByCreatorID(ctx context.Context, creatorID int64) ([]*domain.Event, error) {
	return f.list(func(e *domain.Event) bool { return e.CreatorID == creatorID })
}

func (f *fakeEventRepo) list(keep func(*domain.Event) bool) ([]*domain.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	out := make([]*domain.Event, 0)
	for id, e := range f.s.events {
		if keep(e) {
			cp, _ := f.s.enrichedEvent(id)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].EventDate.Before(out[j].EventDate)
	})
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id int64, patch domain.EventPatch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.EventDate != nil {
		e.EventDate = *patch.EventDate
	}
	if patch.DescriptionSet {
		e.Description = patch.Description
	}
	if patch.LocationSet {
		e.Location = patch.Location
	}
	e.UpdatedAt = time.Now()
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	for invID, inv := range f.s.invitations {
		if inv.EventID == id {
			delete(f.s.invitations, invID)
		}
	}
	for rID, r := range f.s.rsvps {
		if r.EventID == id {
			delete(f.s.rsvps, rID)
		}
	}
	delete(f.s.events, id)
	return nil
}

type fakeRSVPRepo struct{ s *memStore }

func (f *fakeRSVPRepo) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.upsert(rsvp)
}

func (f *fakeRSVPRepo) ListByUserID(ctx context.Context, userID int64) ([]*domain.RSVP, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	out := make([]*domain.RSVP, 0)
	for _, r := range f.s.rsvps {
		if r.UserID == userID {
			cp := *r
			cp.Event, _ = f.s.enrichedEvent(r.EventID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.EventDate.Before(out[j].Event.EventDate) })
	return out, nil
}

func (f *fakeRSVPRepo) ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*domain.RSVP, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	want := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	out := make([]*domain.RSVP, 0)
	for _, r := range f.s.rsvps {
		if want[r.EventID] {
			cp := *r
			cp.User = &domain.UserSummary{ID: r.UserID, Username: f.s.users[r.UserID].Username}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeInvitationRepo struct{ s *memStore }

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.invitations {
		if existing.EventID == inv.EventID && existing.InviteeID == inv.InviteeID {
			return domain.ErrAlreadyInvited
		}
	}
	if _, ok := f.s.events[inv.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	if _, ok := f.s.users[inv.InviteeID]; !ok {
		return domain.ErrInviteeNotFound
	}
	inv.ID = f.s.id()
	cp := *inv
	f.s.invitations[inv.ID] = &cp
	return nil
}

// enriched returns a copy with event, inviter and invitee. Caller holds mu.
func (f *fakeInvitationRepo) enriched(inv *domain.Invitation) *domain.Invitation {
	cp := *inv
	cp.Event, _ = f.s.enrichedEvent(inv.EventID)
	cp.Inviter = f.s.users[inv.InviterID].Summary()
	cp.Invitee = f.s.users[inv.InviteeID].Summary()
	return &cp
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id int64) (*domain.Invitation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	inv, ok := f.s.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	return f.enriched(inv), nil
}

func (f *fakeInvitationRepo) ListByInviteeID(ctx context.Context, inviteeID int64) ([]*domain.Invitation, error) {
	return f.list(func(inv *domain.Invitation) bool { return inv.InviteeID == inviteeID })
}

func (f *fakeInvitationRepo) ListByInviterID(ctx context.Context, inviterID int64) ([]*domain.Invitation, error) {
	return f.list(func(inv *domain.Invitation) bool { return inv.InviterID == inviterID })
}

func (f *fakeInvitationRepo) list(keep func(*domain.Invitation) bool) ([]*domain.Invitation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	out := make([]*domain.Invitation, 0)
	for _, inv := range f.s.invitations {
		if keep(inv) {
			out = append(out, f.enriched(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Invitation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	out := make([]*domain.Invitation, 0)
	for _, inv := range f.s.invitations {
		if inv.EventID == eventID {
			cp := *inv
			cp.Invitee = f.s.users[inv.InviteeID].Summary()
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id int64, status domain.InvitationStatus, rsvp *domain.RSVP) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	inv, ok := f.s.invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	if rsvp != nil {
		// The status change only lands when the RSVP write does.
		if err := f.s.upsert(rsvp); err != nil {
			return err
		}
	}
	inv.Status = status
	return nil
}

type fakeUserRepo struct{ s *memStore }

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.s.id()
	cp := *u
	f.s.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Search(ctx context.Context, query string, excludeID int64, limit int) ([]*domain.UserSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	q := strings.ToLower(query)
	out := make([]*domain.UserSummary, 0)
	for _, u := range f.s.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePasswordHasher struct {
	err error
}

func (f *fakePasswordHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID int64, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token-%d-%s", userID, email), nil
}
