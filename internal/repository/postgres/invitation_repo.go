package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventplanner/internal/domain"
)

const invitationSelect = `
	SELECT i.id, i.event_id, i.inviter_id, i.invitee_id, i.status, i.sent_at,
	       ir.username, ir.email, ie.username, ie.email,` + eventColumns + `
	FROM invitations i
	JOIN users ir ON ir.id = i.inviter_id
	JOIN users ie ON ie.id = i.invitee_id
	JOIN events e ON e.id = i.event_id
	JOIN users c ON c.id = e.creator_id`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, inviter_id, invitee_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, invitee_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.InviterID, inv.InviteeID, inv.Status, inv.SentAt).
		Scan(&inv.ID)
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAlreadyInvited
	}
	switch code, constraint := pgErrorCode(err); {
	case code == pqUniqueViolation:
		return domain.ErrAlreadyInvited
	case code == pqForeignKeyViolation && constraint == "invitations_event_id_fkey":
		return domain.ErrEventNotFound
	case code == pqForeignKeyViolation && constraint == "invitations_invitee_id_fkey":
		return domain.ErrInviteeNotFound
	}
	return err
}

func (r *invitationRepository) GetByID(ctx context.Context, id int64) (*domain.Invitation, error) {
	query := invitationSelect + `
		WHERE i.id = $1
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByInviteeID(ctx context.Context, inviteeID int64) ([]*domain.Invitation, error) {
	query := invitationSelect + `
		WHERE i.invitee_id = $1
		ORDER BY i.sent_at DESC, i.id DESC
	`
	return r.list(ctx, query, inviteeID)
}

func (r *invitationRepository) ListByInviterID(ctx context.Context, inviterID int64) ([]*domain.Invitation, error) {
	query := invitationSelect + `
		WHERE i.inviter_id = $1
		ORDER BY i.sent_at DESC, i.id DESC
	`
	return r.list(ctx, query, inviterID)
}

func (r *invitationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Invitation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Invitation, error) {
	query := `
		SELECT i.id, i.event_id, i.inviter_id, i.invitee_id, i.status, i.sent_at, ie.username, ie.email
		FROM invitations i
		JOIN users ie ON ie.id = i.invitee_id
		WHERE i.event_id = $1
		ORDER BY i.sent_at DESC, i.id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		invitee := &domain.UserSummary{}
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.SentAt,
			&invitee.Username, &invitee.Email); err != nil {
			return nil, err
		}
		invitee.ID = inv.InviteeID
		inv.Invitee = invitee
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvitationStatus, rsvp *domain.RSVP) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `UPDATE invitations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invitation status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	if rsvp != nil {
		if err := upsertRSVP(ctx, tx, rsvp); err != nil {
			return fmt.Errorf("upsert rsvp: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invitation status: %w", err)
	}
	return nil
}

func scanInvitation(s scanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	inviter := &domain.UserSummary{}
	invitee := &domain.UserSummary{}
	var ev eventRow
	dest := append([]any{
		&inv.ID, &inv.EventID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.SentAt,
		&inviter.Username, &inviter.Email, &invitee.Username, &invitee.Email,
	}, ev.targets()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	inviter.ID = inv.InviterID
	invitee.ID = inv.InviteeID
	inv.Inviter = inviter
	inv.Invitee = invitee
	inv.Event = ev.toEvent()
	return inv, nil
}
