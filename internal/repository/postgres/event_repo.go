package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventplanner/internal/domain"
)

// eventColumns selects an event joined to its creator (alias c) with the
// attendee count computed from current RSVPs. Callers alias events as e.
const eventColumns = `
	e.id, e.title, e.description, e.location, e.event_date, e.creator_id,
	e.created_at, e.updated_at, c.username, c.email,
	(SELECT COUNT(*) FROM rsvps ar WHERE ar.event_id = e.id AND ar.response = 'attending')`

const eventSelect = `SELECT ` + eventColumns + `
	FROM events e
	JOIN users c ON c.id = e.creator_id`

// eventRow holds scan destinations for eventColumns.
type eventRow struct {
	event       domain.Event
	description sql.NullString
	location    sql.NullString
	creator     domain.UserSummary
}

func (r *eventRow) targets() []any {
	return []any{
		&r.event.ID, &r.event.Title, &r.description, &r.location, &r.event.EventDate, &r.event.CreatorID,
		&r.event.CreatedAt, &r.event.UpdatedAt, &r.creator.Username, &r.creator.Email,
		&r.event.AttendeeCount,
	}
}

func (r *eventRow) toEvent() *domain.Event {
	e := r.event
	e.Description = nullStringPtr(r.description)
	e.Location = nullStringPtr(r.location)
	creator := r.creator
	creator.ID = e.CreatorID
	e.Creator = &creator
	return &e
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, event_date, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.Location, e.EventDate, e.CreatorID).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := eventSelect + `
		WHERE e.id = $1
	`
	var row eventRow
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(row.targets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return row.toEvent(), nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := eventSelect + `
		ORDER BY e.event_date ASC, e.id ASC
	`
	return r.list(ctx, query)
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID int64) ([]*domain.Event, error) {
	query := eventSelect + `
		WHERE e.creator_id = $1
		ORDER BY e.event_date ASC, e.id ASC
	`
	return r.list(ctx, query, creatorID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, err
		}
		events = append(events, row.toEvent())
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, patch domain.EventPatch) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.DescriptionSet {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, patch.Description)
		n++
	}
	if patch.LocationSet {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, patch.Location)
		n++
	}
	if patch.EventDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_date = $%d", n))
		args = append(args, *patch.EventDate)
		n++
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete invitations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete rsvps: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete event: %w", err)
	}
	return nil
}
