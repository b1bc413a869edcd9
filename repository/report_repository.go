package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/models"
)

// ReportRepository implements the service.ReportRepository interface
type ReportRepository struct {
	q queryable
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{q: db.Pool}
}

// newReportRepositoryWithTx creates a new report repository with a transaction
func newReportRepositoryWithTx(tx queryable) *ReportRepository {
	return &ReportRepository{q: tx}
}

// Create inserts a new moderation report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (created_by, target_type, target_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_resolved, created_at
	`

	err := r.q.QueryRow(ctx, query,
		report.CreatedBy,
		report.TargetType,
		report.TargetID,
		report.Reason,
	).Scan(&report.ID, &report.IsResolved, &report.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// ListByTarget returns reports against a target, newest first
func (r *ReportRepository) ListByTarget(ctx context.Context, target models.TargetRef, limit int) ([]*models.Report, error) {
	query := `
		SELECT id, created_by, target_type, target_id, reason, is_resolved, created_at
		FROM reports
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, target.Type, target.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for %s %d: %w", target.Type, target.ID, err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var report models.Report
		err := rows.Scan(
			&report.ID,
			&report.CreatedBy,
			&report.TargetType,
			&report.TargetID,
			&report.Reason,
			&report.IsResolved,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

// Resolve marks a report as handled
func (r *ReportRepository) Resolve(ctx context.Context, id int64) error {
	query := `UPDATE reports SET is_resolved = TRUE WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to resolve report %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("report %d not found", id)
	}

	return nil
}
