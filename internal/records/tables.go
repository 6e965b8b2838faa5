// AngelaMos | 2026
// tables.go

// Package records is the authorization boundary in front of storage: every
// inbound operation, table name, field name, and filter is checked against
// compile-time whitelists before any SQL is built. No caller-controlled
// identifier reaches the database without passing a whitelist.
package records

import (
	"fmt"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/kpi"
)

// Table describes one whitelisted table: the columns a caller may write or
// filter on, and the ordering applied to list results.
type Table struct {
	Name    string
	Columns []string
	OrderBy string
}

const (
	TableCashPosition    = "cash_position"
	TableMonthlyBurn     = "monthly_burn"
	TableCustomers       = "customers"
	TableEmployeeCount   = "employee_count"
	TablePipelineClients = "pipeline_clients"
	TableQuarterGoals    = "quarter_goals"
	TablePipelineNotes   = "pipeline_notes"
)

var tables = map[string]Table{
	TableCashPosition: {
		Name:    TableCashPosition,
		Columns: []string{"amount", "date", "notes"},
		OrderBy: "date DESC",
	},
	TableMonthlyBurn: {
		Name:    TableMonthlyBurn,
		Columns: []string{"amount", "date", "notes"},
		OrderBy: "date DESC",
	},
	TableCustomers: {
		Name: TableCustomers,
		Columns: []string{
			"name",
			"arr",
			"contract_value",
			"start_date",
			"status",
			"notes",
		},
		OrderBy: "created_at DESC",
	},
	TableEmployeeCount: {
		Name:    TableEmployeeCount,
		Columns: []string{"count", "date", "is_full_time"},
		OrderBy: "date DESC",
	},
	TablePipelineClients: {
		Name: TablePipelineClients,
		Columns: []string{
			"name",
			"segment",
			"stage",
			"estimated_contract_size",
			"engagement_start_date",
			"notes",
		},
		OrderBy: "created_at DESC",
	},
	TableQuarterGoals: {
		Name: TableQuarterGoals,
		Columns: []string{
			"quarter",
			"year",
			"metric_type",
			"target_value",
			"current_value",
			"description",
		},
		OrderBy: "year DESC, quarter DESC",
	},
	TablePipelineNotes: {
		Name:    TablePipelineNotes,
		Columns: []string{"client_id", "content", "sort_order"},
		OrderBy: "sort_order ASC",
	},
}

func Lookup(name string) (Table, bool) {
	t, ok := tables[name]
	return t, ok
}

// FilterColumns drops every field not in the table's column whitelist.
// The id is never writable through a payload; it is supplied separately
// and used only as the lookup predicate.
func (t Table) FilterColumns(data map[string]any) map[string]any {
	filtered := make(map[string]any, len(data))

	for _, col := range t.Columns {
		if value, ok := data[col]; ok {
			filtered[col] = value
		}
	}

	return filtered
}

var metricTypes = map[string]struct{}{
	"ARR":            {},
	"customers":      {},
	"pipeline_value": {},
	"custom":         {},
}

// validateEnums enforces the enumerated-value invariants on write
// payloads. Values arrive as decoded JSON, so numbers are float64.
func validateEnums(table string, data map[string]any) error {
	switch table {
	case TablePipelineClients:
		if segment, ok := data["segment"].(string); ok {
			if !contains(kpi.Segments, segment) {
				return core.MalformedInputError(
					fmt.Sprintf("invalid segment %q", segment),
				)
			}
		}
		if stage, ok := data["stage"].(string); ok {
			if !contains(kpi.Stages, stage) {
				return core.MalformedInputError(
					fmt.Sprintf("invalid stage %q", stage),
				)
			}
		}
	case TableQuarterGoals:
		if quarter, ok := data["quarter"].(float64); ok {
			if quarter < 1 || quarter > 4 || quarter != float64(int(quarter)) {
				return core.MalformedInputError("quarter must be between 1 and 4")
			}
		}
		if metricType, ok := data["metric_type"].(string); ok {
			if _, valid := metricTypes[metricType]; !valid {
				return core.MalformedInputError(
					fmt.Sprintf("invalid metric_type %q", metricType),
				)
			}
		}
	}

	return nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
