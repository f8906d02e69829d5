package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

// upsertRSVPQuery relies on the (event_id, user_id) unique constraint so that
// concurrent identical requests converge on one row.
const upsertRSVPQuery = `
	WITH upserted AS (
		INSERT INTO rsvps (event_id, user_id, response, responded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET response = EXCLUDED.response, responded_at = EXCLUDED.responded_at
		RETURNING id, user_id
	)
	SELECT upserted.id, u.username
	FROM upserted
	JOIN users u ON u.id = upserted.user_id
`

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	return upsertRSVP(ctx, r.DB, rsvp)
}

func upsertRSVP(ctx context.Context, q queryRower, rsvp *domain.RSVP) error {
	var username string
	err := q.QueryRowContext(ctx, upsertRSVPQuery, rsvp.EventID, rsvp.UserID, rsvp.Response, rsvp.RespondedAt).
		Scan(&rsvp.ID, &username)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pqForeignKeyViolation {
			if constraint == "rsvps_user_id_fkey" {
				return domain.ErrUserNotFound
			}
			return domain.ErrEventNotFound
		}
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	rsvp.User = &domain.UserSummary{ID: rsvp.UserID, Username: username}
	return nil
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.RSVP, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.response, r.responded_at,` + eventColumns + `
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		JOIN users c ON c.id = e.creator_id
		WHERE r.user_id = $1
		ORDER BY e.event_date ASC, e.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp := &domain.RSVP{}
		var ev eventRow
		dest := append([]any{&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Response, &rsvp.RespondedAt}, ev.targets()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rsvp.Event = ev.toEvent()
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*domain.RSVP, error) {
	rsvps := make([]*domain.RSVP, 0)
	if len(eventIDs) == 0 {
		return rsvps, nil
	}
	query := `
		SELECT r.id, r.event_id, r.user_id, r.response, r.responded_at, u.username
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ANY($1)
		ORDER BY r.event_id, r.responded_at ASC, r.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rsvp := &domain.RSVP{}
		user := &domain.UserSummary{}
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Response, &rsvp.RespondedAt, &user.Username); err != nil {
			return nil, err
		}
		user.ID = rsvp.UserID
		rsvp.User = user
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}
