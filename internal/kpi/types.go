// AngelaMos | 2026
// types.go

// Package kpi computes the aggregate snapshot served to the dashboard:
// latest cash and burn figures, customer totals, head counts, and the
// segment-by-stage pipeline matrix. Aggregation is pure; rows go in, a
// snapshot comes out.
package kpi

import (
	"context"
	"time"
)

const (
	SegmentSMB      = "smb"
	SegmentMidMkt   = "mid_market"
	SegmentLargeCap = "large_cap"
)

const (
	StageInitialMeeting = "initial_meeting"
	StagePilotScoping   = "pilot_scoping"
	StagePilot          = "pilot"
	StageContracting    = "contracting"
)

// Segments and Stages fix the matrix axes. Rows outside these sets are
// excluded from the matrix but still appear in the flat client list.
var (
	Segments = []string{SegmentSMB, SegmentMidMkt, SegmentLargeCap}
	Stages   = []string{
		StageInitialMeeting,
		StagePilotScoping,
		StagePilot,
		StageContracting,
	}
)

type CashPosition struct {
	ID     string    `db:"id"     json:"id"`
	Amount float64   `db:"amount" json:"amount"`
	Date   time.Time `db:"date"   json:"date"`
	Notes  *string   `db:"notes"  json:"notes,omitempty"`
}

type MonthlyBurn struct {
	ID     string    `db:"id"     json:"id"`
	Amount float64   `db:"amount" json:"amount"`
	Date   time.Time `db:"date"   json:"date"`
	Notes  *string   `db:"notes"  json:"notes,omitempty"`
}

type Customer struct {
	ID            string     `db:"id"             json:"id"`
	Name          string     `db:"name"           json:"name"`
	ARR           *float64   `db:"arr"            json:"arr,omitempty"`
	ContractValue *float64   `db:"contract_value" json:"contractValue,omitempty"`
	StartDate     *time.Time `db:"start_date"     json:"startDate,omitempty"`
	Status        *string    `db:"status"         json:"status,omitempty"`
	Notes         *string    `db:"notes"          json:"notes,omitempty"`
}

type EmployeeCount struct {
	ID         string    `db:"id"           json:"id"`
	Count      int       `db:"count"        json:"count"`
	Date       time.Time `db:"date"         json:"date"`
	IsFullTime bool      `db:"is_full_time" json:"isFullTime"`
}

type PipelineClient struct {
	ID                    string     `db:"id"                      json:"id"`
	Name                  string     `db:"name"                    json:"name"`
	Segment               string     `db:"segment"                 json:"segment"`
	Stage                 *string    `db:"stage"                   json:"stage,omitempty"`
	EstimatedContractSize *float64   `db:"estimated_contract_size" json:"estimatedContractSize,omitempty"`
	EngagementStartDate   *time.Time `db:"engagement_start_date"   json:"engagementStartDate,omitempty"`
	Notes                 *string    `db:"notes"                   json:"notes,omitempty"`
}

type QuarterGoal struct {
	ID           string   `db:"id"            json:"id"`
	Quarter      int      `db:"quarter"       json:"quarter"`
	Year         int      `db:"year"          json:"year"`
	MetricType   string   `db:"metric_type"   json:"metricType"`
	TargetValue  float64  `db:"target_value"  json:"targetValue"`
	CurrentValue *float64 `db:"current_value" json:"currentValue,omitempty"`
	Description  *string  `db:"description"   json:"description,omitempty"`
}

type PipelineNote struct {
	ID        string `db:"id"         json:"id"`
	ClientID  string `db:"client_id"  json:"clientId"`
	Content   string `db:"content"    json:"content"`
	SortOrder int    `db:"sort_order" json:"sortOrder"`
}

// FormattedClient is a pipeline client with display defaults applied and
// the engagement age computed against the snapshot time.
type FormattedClient struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Segment               string     `json:"segment"`
	Stage                 string     `json:"stage"`
	EstimatedContractSize float64    `json:"estimatedContractSize"`
	EngagementStartDate   *time.Time `json:"engagementStartDate,omitempty"`
	DaysSinceEngagement   int        `json:"daysSinceEngagement"`
	Notes                 *string    `json:"notes,omitempty"`
}

// MatrixCell is one cell of the segment-by-stage pipeline matrix.
type MatrixCell struct {
	Clients    []FormattedClient `json:"clients"`
	Count      int               `json:"count"`
	TotalValue float64           `json:"totalValue"`
}

// Snapshot is the full aggregate served by getKPIs. It is recomputed from
// the current rows on every request; nothing here is persisted.
type Snapshot struct {
	CashPosition       *CashPosition                    `json:"cashPosition"`
	MonthlyBurn        *MonthlyBurn                     `json:"monthlyBurn"`
	TotalARR           float64                          `json:"totalARR"`
	TotalContractValue float64                          `json:"totalContractValue"`
	CustomerCount      int                              `json:"customerCount"`
	FullTimeEmployees  int                              `json:"fullTimeEmployees"`
	Contractors        int                              `json:"contractors"`
	Customers          []Customer                       `json:"customers"`
	PipelineClients    []FormattedClient                `json:"pipelineClients"`
	PipelineMatrix     map[string]map[string]MatrixCell `json:"pipelineMatrix"`
	QuarterGoals       []QuarterGoal                    `json:"quarterGoals"`
	PipelineNotes      []PipelineNote                   `json:"pipelineNotes"`
}

// Input is the raw row sets the aggregation runs over.
type Input struct {
	CashPositions   []CashPosition
	MonthlyBurns    []MonthlyBurn
	Customers       []Customer
	EmployeeCounts  []EmployeeCount
	PipelineClients []PipelineClient
	QuarterGoals    []QuarterGoal
	PipelineNotes   []PipelineNote
}

// Source fetches the raw rows backing a snapshot. Implemented by the
// records storage gateway.
type Source interface {
	CashPositions(ctx context.Context) ([]CashPosition, error)
	MonthlyBurns(ctx context.Context) ([]MonthlyBurn, error)
	Customers(ctx context.Context) ([]Customer, error)
	EmployeeCounts(ctx context.Context) ([]EmployeeCount, error)
	PipelineClients(ctx context.Context) ([]PipelineClient, error)
	QuarterGoals(ctx context.Context) ([]QuarterGoal, error)
	PipelineNotes(ctx context.Context) ([]PipelineNote, error)
}
