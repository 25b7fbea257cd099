package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentorg/internal/types"
)

// CreateApproval inserts a new approval request
func (s *SQLiteStorage) CreateApproval(ctx context.Context, req *types.ApprovalRequest) error {
	if !req.Kind.IsValid() {
		return fmt.Errorf("invalid approval kind: %s", req.Kind)
	}
	if req.Status == "" {
		req.Status = types.ApprovalPending
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("invalid approval status: %s", req.Status)
	}
	if req.ID == "" {
		req.ID = "apr-" + uuid.NewString()[:8]
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approvals (id, kind, requester_id, subject, status, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, string(req.Kind), req.RequesterID, req.Subject, string(req.Status),
		req.CreatedAt.Unix(), unixOrNil(req.ResolvedAt))
	if err != nil {
		return fmt.Errorf("failed to create approval: %w", err)
	}
	return nil
}

// ListPendingApprovals returns all pending approval requests, oldest first
func (s *SQLiteStorage) ListPendingApprovals(ctx context.Context) ([]*types.ApprovalRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, requester_id, subject, status, created_at, resolved_at
		FROM approvals WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*types.ApprovalRequest
	for rows.Next() {
		var (
			req      types.ApprovalRequest
			kind     string
			status   string
			created  int64
			resolved sql.NullInt64
		)
		if err := rows.Scan(&req.ID, &kind, &req.RequesterID, &req.Subject, &status, &created, &resolved); err != nil {
			return nil, err
		}
		req.Kind = types.ApprovalKind(kind)
		req.Status = types.ApprovalStatus(status)
		req.CreatedAt = time.Unix(created, 0).UTC()
		req.ResolvedAt = timeFromNull(resolved)
		approvals = append(approvals, &req)
	}
	return approvals, rows.Err()
}

// CreateKPI inserts a new KPI record
func (s *SQLiteStorage) CreateKPI(ctx context.Context, kpi *types.KPI) error {
	if kpi.Name == "" {
		return fmt.Errorf("name is required")
	}
	if kpi.ID == "" {
		kpi.ID = "kpi-" + uuid.NewString()[:8]
	}
	if kpi.UpdatedAt.IsZero() {
		kpi.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kpis (id, name, value, target, metric_source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		kpi.ID, kpi.Name, kpi.Value, kpi.Target, kpi.MetricSource, kpi.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create kpi: %w", err)
	}
	return nil
}

// ListKPIs returns all KPI records
func (s *SQLiteStorage) ListKPIs(ctx context.Context) ([]*types.KPI, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, value, target, metric_source, updated_at FROM kpis ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*types.KPI
	for rows.Next() {
		var (
			kpi     types.KPI
			updated int64
		)
		if err := rows.Scan(&kpi.ID, &kpi.Name, &kpi.Value, &kpi.Target, &kpi.MetricSource, &updated); err != nil {
			return nil, err
		}
		kpi.UpdatedAt = time.Unix(updated, 0).UTC()
		kpis = append(kpis, &kpi)
	}
	return kpis, rows.Err()
}

// UpdateKPIValue writes a KPI's current value
func (s *SQLiteStorage) UpdateKPIValue(ctx context.Context, id string, value float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE kpis SET value = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update kpi: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("kpi not found: %s", id)
	}
	return nil
}

// ListGoals returns all goal records
func (s *SQLiteStorage) ListGoals(ctx context.Context) ([]*types.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, quarter, kpi_ids_json FROM goals ORDER BY quarter ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*types.Goal
	for rows.Next() {
		var (
			goal    types.Goal
			kpiJSON string
		)
		if err := rows.Scan(&goal.ID, &goal.Title, &goal.Quarter, &kpiJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kpiJSON), &goal.KPIIDs); err != nil {
			return nil, fmt.Errorf("failed to parse kpi ids: %w", err)
		}
		goals = append(goals, &goal)
	}
	return goals, rows.Err()
}
