package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentorg/internal/types"
)

// CreateDelegation inserts a new delegated hand-off
func (s *SQLiteStorage) CreateDelegation(ctx context.Context, delegation *types.DelegatedTask) error {
	if err := delegation.Validate(); err != nil {
		return fmt.Errorf("invalid delegation: %w", err)
	}
	if delegation.ID == "" {
		delegation.ID = "dlg-" + uuid.NewString()[:8]
	}
	now := time.Now().UTC()
	if delegation.CreatedAt.IsZero() {
		delegation.CreatedAt = now
	}
	if delegation.UpdatedAt.IsZero() {
		delegation.UpdatedAt = delegation.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO delegations (id, title, status, from_actor_id, to_actor_id, project_task_id, started_at, acknowledged_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		delegation.ID, delegation.Title, string(delegation.Status), delegation.FromActorID,
		delegation.ToActorID, delegation.ProjectTaskID, unixOrNil(delegation.StartedAt),
		unixOrNil(delegation.AcknowledgedAt), delegation.CreatedAt.Unix(), delegation.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create delegation: %w", err)
	}
	return nil
}

// ListDelegations returns hand-offs matching the filter, oldest first
func (s *SQLiteStorage) ListDelegations(ctx context.Context, filter types.DelegationFilter) ([]*types.DelegatedTask, error) {
	query := `
		SELECT id, title, status, from_actor_id, to_actor_id, project_task_id, started_at, acknowledged_at, created_at, updated_at
		FROM delegations WHERE 1=1`
	var args []interface{}

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.ToActorID != "" {
		query += " AND to_actor_id = ?"
		args = append(args, filter.ToActorID)
	}
	if filter.ActiveOnly {
		query += " AND status NOT IN ('done', 'cancelled')"
	}
	if filter.UnacknowledgedOnly {
		query += " AND acknowledged_at IS NULL"
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	defer rows.Close()

	var delegations []*types.DelegatedTask
	for rows.Next() {
		var (
			d                types.DelegatedTask
			status           string
			started, acked   sql.NullInt64
			created, updated int64
		)
		err := rows.Scan(&d.ID, &d.Title, &status, &d.FromActorID, &d.ToActorID,
			&d.ProjectTaskID, &started, &acked, &created, &updated)
		if err != nil {
			return nil, err
		}
		d.Status = types.TaskStatus(status)
		d.StartedAt = timeFromNull(started)
		d.AcknowledgedAt = timeFromNull(acked)
		d.CreatedAt = time.Unix(created, 0).UTC()
		d.UpdatedAt = time.Unix(updated, 0).UTC()
		delegations = append(delegations, &d)
	}
	return delegations, rows.Err()
}

// SendMessage records a directed message to an actor
func (s *SQLiteStorage) SendMessage(ctx context.Context, msg *types.Message) error {
	if msg.ToID == "" {
		return fmt.Errorf("to_id is required")
	}
	if msg.Body == "" {
		return fmt.Errorf("body is required")
	}
	if msg.ID == "" {
		msg.ID = "msg-" + uuid.NewString()[:8]
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, from_id, to_id, body, created_at, acknowledged_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.FromID, msg.ToID, msg.Body, msg.CreatedAt.Unix(), unixOrNil(msg.AcknowledgedAt))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ListUnacknowledgedMessages returns messages never acknowledged by their
// recipient that were created before the given cutoff, oldest first
func (s *SQLiteStorage) ListUnacknowledgedMessages(ctx context.Context, olderThan time.Time) ([]*types.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_id, to_id, body, created_at, acknowledged_at
		FROM messages WHERE acknowledged_at IS NULL AND created_at < ?
		ORDER BY created_at ASC`, olderThan.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*types.Message
	for rows.Next() {
		var (
			m       types.Message
			acked   sql.NullInt64
			created int64
		)
		if err := rows.Scan(&m.ID, &m.FromID, &m.ToID, &m.Body, &created, &acked); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(created, 0).UTC()
		m.AcknowledgedAt = timeFromNull(acked)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// Announce records a message on the passive notification channel
func (s *SQLiteStorage) Announce(ctx context.Context, ann *types.Announcement) error {
	if ann.Body == "" {
		return fmt.Errorf("body is required")
	}
	if ann.ID == "" {
		ann.ID = "ann-" + uuid.NewString()[:8]
	}
	if ann.CreatedAt.IsZero() {
		ann.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, announcer_id, body, created_at)
		VALUES (?, ?, ?, ?)`,
		ann.ID, ann.AnnouncerID, ann.Body, ann.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to announce: %w", err)
	}
	return nil
}
