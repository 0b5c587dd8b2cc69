// backend-go/internal/repository/postgres/alert_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/stockcast/backend-go/internal/domain"
)

// priorityRankSQL orders alerts by urgency instead of the alphabetical
// accident a plain ORDER BY priority would give.
const priorityRankSQL = `
	CASE a.priority
		WHEN 'critical' THEN 0
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		ELSE 3
	END`

const alertColumns = `
	a.id, a.product_id, p.name AS product_name, a.alert_type, a.priority,
	a.title, a.message, a.recommended_action, a.recommended_quantity,
	a.is_read, a.is_resolved, a.resolved_at, a.created_at, a.expires_at`

type alertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *alertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) DeleteUnresolvedByProduct(ctx context.Context, productID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM alerts WHERE product_id = $1 AND is_resolved = FALSE`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear unresolved alerts for product %d: %w", productID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared alerts: %w", err)
	}

	return n, nil
}

func (r *alertRepository) Insert(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (
			product_id, alert_type, priority, title, message,
			recommended_action, recommended_quantity,
			is_read, is_resolved, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		alert.ProductID,
		alert.AlertType,
		alert.Priority,
		alert.Title,
		alert.Message,
		alert.RecommendedAction,
		alert.RecommendedQuantity,
		alert.IsRead,
		alert.IsResolved,
		alert.CreatedAt,
		alert.ExpiresAt,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to insert alert for product %d: %w", alert.ProductID, err)
	}

	return nil
}

func (r *alertRepository) List(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := 1

	if filter.Priority != nil {
		clauses = append(clauses, fmt.Sprintf("a.priority = $%d", idx))
		args = append(args, *filter.Priority)
		idx++
	}
	if filter.Resolved != nil {
		clauses = append(clauses, fmt.Sprintf("a.is_resolved = $%d", idx))
		args = append(args, *filter.Resolved)
		idx++
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts a
		JOIN products p ON a.product_id = p.id
		%s
		ORDER BY a.is_resolved ASC, %s, a.created_at DESC
		LIMIT $%d
	`, alertColumns, where, priorityRankSQL, idx)
	args = append(args, limit)

	var alerts []domain.Alert
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id int64) (*domain.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts a
		JOIN products p ON a.product_id = p.id
		WHERE a.id = $1
	`, alertColumns)

	var alert domain.Alert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get alert %d: %w", id, err)
	}

	return &alert, nil
}

func (r *alertRepository) Update(ctx context.Context, id int64, patch domain.AlertUpdate) (*domain.Alert, error) {
	var (
		sets []string
		args []interface{}
	)
	idx := 1

	if patch.IsRead != nil {
		sets = append(sets, fmt.Sprintf("is_read = $%d", idx))
		args = append(args, *patch.IsRead)
		idx++
	}
	if patch.IsResolved != nil {
		sets = append(sets, fmt.Sprintf("is_resolved = $%d", idx))
		args = append(args, *patch.IsResolved)
		idx++
		if *patch.IsResolved {
			sets = append(sets, "resolved_at = NOW()")
		} else {
			sets = append(sets, "resolved_at = NULL")
		}
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE alerts SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update alert %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrAlertNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *alertRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// Summary counts open alerts only; resolved history stays out of the
// dashboard numbers.
func (r *alertRepository) Summary(ctx context.Context) (*domain.AlertSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE priority = 'critical') AS critical,
			COUNT(*) FILTER (WHERE priority = 'high') AS high,
			COUNT(*) FILTER (WHERE priority = 'medium') AS medium,
			COUNT(*) FILTER (WHERE priority = 'low') AS low,
			COUNT(*) FILTER (WHERE is_read = FALSE) AS unread
		FROM alerts
		WHERE is_resolved = FALSE
	`

	var s domain.AlertSummary
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, fmt.Errorf("failed to build alert summary: %w", err)
	}

	return &s, nil
}
