// AngelaMos | 2026
// kpisource.go

package records

import (
	"context"
	"fmt"

	"github.com/artemiscap/dashboard-api/internal/kpi"
)

// Typed fetchers backing the KPI aggregator. Columns are selected
// explicitly so schema additions cannot break scanning.

func (r *repository) CashPositions(
	ctx context.Context,
) ([]kpi.CashPosition, error) {
	query := `
		SELECT id, amount, date, notes
		FROM cash_position
		ORDER BY date DESC`

	var rows []kpi.CashPosition
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch cash positions: %w", err)
	}
	return rows, nil
}

func (r *repository) MonthlyBurns(
	ctx context.Context,
) ([]kpi.MonthlyBurn, error) {
	query := `
		SELECT id, amount, date, notes
		FROM monthly_burn
		ORDER BY date DESC`

	var rows []kpi.MonthlyBurn
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch monthly burns: %w", err)
	}
	return rows, nil
}

func (r *repository) Customers(ctx context.Context) ([]kpi.Customer, error) {
	query := `
		SELECT id, name, arr, contract_value, start_date, status, notes
		FROM customers
		ORDER BY created_at DESC`

	var rows []kpi.Customer
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	return rows, nil
}

func (r *repository) EmployeeCounts(
	ctx context.Context,
) ([]kpi.EmployeeCount, error) {
	query := `
		SELECT id, count, date, is_full_time
		FROM employee_count
		ORDER BY date DESC`

	var rows []kpi.EmployeeCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch employee counts: %w", err)
	}
	return rows, nil
}

func (r *repository) PipelineClients(
	ctx context.Context,
) ([]kpi.PipelineClient, error) {
	query := `
		SELECT id, name, segment, stage, estimated_contract_size,
		       engagement_start_date, notes
		FROM pipeline_clients
		ORDER BY created_at DESC`

	var rows []kpi.PipelineClient
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch pipeline clients: %w", err)
	}
	return rows, nil
}

func (r *repository) QuarterGoals(
	ctx context.Context,
) ([]kpi.QuarterGoal, error) {
	query := `
		SELECT id, quarter, year, metric_type, target_value, current_value,
		       description
		FROM quarter_goals
		ORDER BY year DESC, quarter DESC`

	var rows []kpi.QuarterGoal
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch quarter goals: %w", err)
	}
	return rows, nil
}

func (r *repository) PipelineNotes(
	ctx context.Context,
) ([]kpi.PipelineNote, error) {
	query := `
		SELECT id, client_id, content, sort_order
		FROM pipeline_notes
		ORDER BY sort_order ASC`

	var rows []kpi.PipelineNote
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch pipeline notes: %w", err)
	}
	return rows, nil
}
