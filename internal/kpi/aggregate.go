// AngelaMos | 2026
// aggregate.go

package kpi

import (
	"context"
	"fmt"
	"time"
)

type Aggregator struct {
	source Source
	now    func() time.Time
}

// New builds an aggregator over source. A nil now defaults to time.Now;
// tests inject a fixed clock.
func New(source Source, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{source: source, now: now}
}

// Snapshot fetches all row sets and aggregates them.
func (a *Aggregator) Snapshot(ctx context.Context) (*Snapshot, error) {
	var in Input
	var err error

	if in.CashPositions, err = a.source.CashPositions(ctx); err != nil {
		return nil, fmt.Errorf("fetch cash positions: %w", err)
	}
	if in.MonthlyBurns, err = a.source.MonthlyBurns(ctx); err != nil {
		return nil, fmt.Errorf("fetch monthly burns: %w", err)
	}
	if in.Customers, err = a.source.Customers(ctx); err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	if in.EmployeeCounts, err = a.source.EmployeeCounts(ctx); err != nil {
		return nil, fmt.Errorf("fetch employee counts: %w", err)
	}
	if in.PipelineClients, err = a.source.PipelineClients(ctx); err != nil {
		return nil, fmt.Errorf("fetch pipeline clients: %w", err)
	}
	if in.QuarterGoals, err = a.source.QuarterGoals(ctx); err != nil {
		return nil, fmt.Errorf("fetch quarter goals: %w", err)
	}
	if in.PipelineNotes, err = a.source.PipelineNotes(ctx); err != nil {
		return nil, fmt.Errorf("fetch pipeline notes: %w", err)
	}

	return Aggregate(in, a.now()), nil
}

// Aggregate computes the snapshot from raw rows. Pure and deterministic
// given the same input and now. Latest-by-date figures are re-derived here
// rather than trusting input ordering, so unordered row sets still
// aggregate correctly.
func Aggregate(in Input, now time.Time) *Snapshot {
	snap := &Snapshot{
		Customers:     in.Customers,
		QuarterGoals:  in.QuarterGoals,
		PipelineNotes: in.PipelineNotes,
		CustomerCount: len(in.Customers),
	}

	if snap.Customers == nil {
		snap.Customers = []Customer{}
	}
	if snap.QuarterGoals == nil {
		snap.QuarterGoals = []QuarterGoal{}
	}
	if snap.PipelineNotes == nil {
		snap.PipelineNotes = []PipelineNote{}
	}

	snap.CashPosition = latestCashPosition(in.CashPositions)
	snap.MonthlyBurn = latestMonthlyBurn(in.MonthlyBurns)

	for _, c := range in.Customers {
		if c.ARR != nil {
			snap.TotalARR += *c.ARR
		}
		if c.ContractValue != nil {
			snap.TotalContractValue += *c.ContractValue
		}
	}

	snap.FullTimeEmployees = latestHeadCount(in.EmployeeCounts, true)
	snap.Contractors = latestHeadCount(in.EmployeeCounts, false)

	snap.PipelineClients = formatClients(in.PipelineClients, now)
	snap.PipelineMatrix = buildMatrix(snap.PipelineClients)

	return snap
}

func latestCashPosition(rows []CashPosition) *CashPosition {
	var latest *CashPosition
	for i := range rows {
		if latest == nil || rows[i].Date.After(latest.Date) {
			latest = &rows[i]
		}
	}
	return latest
}

func latestMonthlyBurn(rows []MonthlyBurn) *MonthlyBurn {
	var latest *MonthlyBurn
	for i := range rows {
		if latest == nil || rows[i].Date.After(latest.Date) {
			latest = &rows[i]
		}
	}
	return latest
}

// latestHeadCount picks the most recently dated row of the requested kind.
// Ties resolve to whichever maximal row is seen first. No rows means a
// head count of zero.
func latestHeadCount(rows []EmployeeCount, fullTime bool) int {
	var latest *EmployeeCount
	for i := range rows {
		if rows[i].IsFullTime != fullTime {
			continue
		}
		if latest == nil || rows[i].Date.After(latest.Date) {
			latest = &rows[i]
		}
	}

	if latest == nil {
		return 0
	}
	return latest.Count
}

func formatClients(rows []PipelineClient, now time.Time) []FormattedClient {
	formatted := make([]FormattedClient, 0, len(rows))

	for _, c := range rows {
		fc := FormattedClient{
			ID:                  c.ID,
			Name:                c.Name,
			Segment:             c.Segment,
			Stage:               StageInitialMeeting,
			EngagementStartDate: c.EngagementStartDate,
			Notes:               c.Notes,
		}

		if c.Stage != nil && *c.Stage != "" {
			fc.Stage = *c.Stage
		}
		if c.EstimatedContractSize != nil {
			fc.EstimatedContractSize = *c.EstimatedContractSize
		}
		if c.EngagementStartDate != nil {
			fc.DaysSinceEngagement = daysBetween(*c.EngagementStartDate, now)
		}

		formatted = append(formatted, fc)
	}

	return formatted
}

func daysBetween(start, now time.Time) int {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// buildMatrix partitions formatted clients into the fixed 3x4
// segment-by-stage grid. Clients whose segment or stage is outside the
// fixed sets simply do not land in any cell; they stay visible in the flat
// list. Row and column totals are the presentation layer's job.
func buildMatrix(clients []FormattedClient) map[string]map[string]MatrixCell {
	matrix := make(map[string]map[string]MatrixCell, len(Segments))

	for _, segment := range Segments {
		row := make(map[string]MatrixCell, len(Stages))
		for _, stage := range Stages {
			row[stage] = MatrixCell{Clients: []FormattedClient{}}
		}
		matrix[segment] = row
	}

	for _, c := range clients {
		row, ok := matrix[c.Segment]
		if !ok {
			continue
		}
		cell, ok := row[c.Stage]
		if !ok {
			continue
		}

		cell.Clients = append(cell.Clients, c)
		cell.Count++
		cell.TotalValue += c.EstimatedContractSize
		row[c.Stage] = cell
	}

	return matrix
}
