// AngelaMos | 2026
// aggregate_test.go

package kpi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateCustomerTotals(t *testing.T) {
	now := date(2026, 6, 1)

	snap := Aggregate(Input{
		Customers: []Customer{
			{ID: "c1", Name: "Acme", ARR: ptr(100000.0), ContractValue: ptr(50.0)},
			{ID: "c2", Name: "Beta", ARR: ptr(50000.0)},
			{ID: "c3", Name: "Gamma", ContractValue: ptr(100.0)},
		},
	}, now)

	assert.Equal(t, 3, snap.CustomerCount)
	assert.Equal(t, 150000.0, snap.TotalARR)
	assert.Equal(t, 150.0, snap.TotalContractValue)
}

func TestAggregateLatestByDateIgnoresOrder(t *testing.T) {
	now := date(2026, 6, 1)

	// Rows arrive unordered; the latest date must still win.
	snap := Aggregate(Input{
		CashPositions: []CashPosition{
			{ID: "old", Amount: 100, Date: date(2026, 1, 1)},
			{ID: "newest", Amount: 300, Date: date(2026, 5, 1)},
			{ID: "mid", Amount: 200, Date: date(2026, 3, 1)},
		},
		MonthlyBurns: []MonthlyBurn{
			{ID: "b2", Amount: 40, Date: date(2026, 4, 1)},
			{ID: "b1", Amount: 30, Date: date(2026, 2, 1)},
		},
	}, now)

	require.NotNil(t, snap.CashPosition)
	assert.Equal(t, "newest", snap.CashPosition.ID)
	assert.Equal(t, 300.0, snap.CashPosition.Amount)

	require.NotNil(t, snap.MonthlyBurn)
	assert.Equal(t, "b2", snap.MonthlyBurn.ID)
}

func TestAggregateEmptyInput(t *testing.T) {
	snap := Aggregate(Input{}, date(2026, 6, 1))

	assert.Nil(t, snap.CashPosition)
	assert.Nil(t, snap.MonthlyBurn)
	assert.Zero(t, snap.TotalARR)
	assert.Zero(t, snap.CustomerCount)
	assert.Zero(t, snap.FullTimeEmployees)
	assert.Zero(t, snap.Contractors)

	// Empty, not null, so clients always receive arrays.
	assert.NotNil(t, snap.Customers)
	assert.NotNil(t, snap.QuarterGoals)
	assert.NotNil(t, snap.PipelineNotes)
	assert.NotNil(t, snap.PipelineClients)
	assert.Len(t, snap.PipelineMatrix, len(Segments))
}

func TestAggregateHeadCounts(t *testing.T) {
	snap := Aggregate(Input{
		EmployeeCounts: []EmployeeCount{
			{ID: "e1", Count: 5, Date: date(2026, 1, 1), IsFullTime: true},
			{ID: "e2", Count: 8, Date: date(2026, 5, 1), IsFullTime: true},
			{ID: "e3", Count: 2, Date: date(2026, 4, 1), IsFullTime: false},
			{ID: "e4", Count: 3, Date: date(2026, 2, 1), IsFullTime: false},
		},
	}, date(2026, 6, 1))

	assert.Equal(t, 8, snap.FullTimeEmployees)
	assert.Equal(t, 2, snap.Contractors)
}

func TestFormatClientsDefaults(t *testing.T) {
	now := date(2026, 6, 11)
	start := date(2026, 6, 1)
	future := date(2026, 7, 1)

	clients := formatClients([]PipelineClient{
		{
			ID:                  "p1",
			Name:                "NoStage",
			Segment:             SegmentSMB,
			EngagementStartDate: &start,
		},
		{
			ID:                    "p2",
			Name:                  "Full",
			Segment:               SegmentMidMkt,
			Stage:                 ptr(StagePilot),
			EstimatedContractSize: ptr(75000.0),
			EngagementStartDate:   &future,
		},
		{
			ID:      "p3",
			Name:    "EmptyStage",
			Segment: SegmentLargeCap,
			Stage:   ptr(""),
		},
	}, now)

	require.Len(t, clients, 3)

	assert.Equal(t, StageInitialMeeting, clients[0].Stage)
	assert.Equal(t, 0.0, clients[0].EstimatedContractSize)
	assert.Equal(t, 10, clients[0].DaysSinceEngagement)

	assert.Equal(t, StagePilot, clients[1].Stage)
	assert.Equal(t, 75000.0, clients[1].EstimatedContractSize)
	// Future start dates clamp to zero rather than going negative.
	assert.Equal(t, 0, clients[1].DaysSinceEngagement)

	assert.Equal(t, StageInitialMeeting, clients[2].Stage)
	assert.Equal(t, 0, clients[2].DaysSinceEngagement)
}

func TestBuildMatrix(t *testing.T) {
	now := date(2026, 6, 1)

	snap := Aggregate(Input{
		PipelineClients: []PipelineClient{
			{
				ID:                    "p1",
				Name:                  "A",
				Segment:               SegmentSMB,
				Stage:                 ptr(StagePilot),
				EstimatedContractSize: ptr(10000.0),
			},
			{
				ID:                    "p2",
				Name:                  "B",
				Segment:               SegmentSMB,
				Stage:                 ptr(StagePilot),
				EstimatedContractSize: ptr(20000.0),
			},
			{
				ID:      "p3",
				Name:    "OffGrid",
				Segment: "government",
				Stage:   ptr(StagePilot),
			},
		},
	}, now)

	require.Len(t, snap.PipelineMatrix, 3)
	for _, segment := range Segments {
		require.Contains(t, snap.PipelineMatrix, segment)
		require.Len(t, snap.PipelineMatrix[segment], len(Stages))
	}

	cell := snap.PipelineMatrix[SegmentSMB][StagePilot]
	assert.Equal(t, 2, cell.Count)
	assert.Equal(t, 30000.0, cell.TotalValue)
	assert.Len(t, cell.Clients, 2)

	// The off-grid segment lands in no cell but stays in the flat list.
	assert.Len(t, snap.PipelineClients, 3)

	empty := snap.PipelineMatrix[SegmentLargeCap][StageContracting]
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Clients)
}

type stubSource struct {
	cash []CashPosition
}

func (s *stubSource) CashPositions(context.Context) ([]CashPosition, error) {
	return s.cash, nil
}
func (s *stubSource) MonthlyBurns(context.Context) ([]MonthlyBurn, error) {
	return nil, nil
}
func (s *stubSource) Customers(context.Context) ([]Customer, error) {
	return nil, nil
}
func (s *stubSource) EmployeeCounts(context.Context) ([]EmployeeCount, error) {
	return nil, nil
}
func (s *stubSource) PipelineClients(context.Context) ([]PipelineClient, error) {
	return nil, nil
}
func (s *stubSource) QuarterGoals(context.Context) ([]QuarterGoal, error) {
	return nil, nil
}
func (s *stubSource) PipelineNotes(context.Context) ([]PipelineNote, error) {
	return nil, nil
}

func TestAggregatorUsesInjectedClock(t *testing.T) {
	fixed := date(2026, 6, 1)
	agg := New(&stubSource{
		cash: []CashPosition{{ID: "c", Amount: 42, Date: date(2026, 5, 1)}},
	}, func() time.Time { return fixed })

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.CashPosition)
	assert.Equal(t, 42.0, snap.CashPosition.Amount)
}
