// AngelaMos | 2026
// service_test.go

package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/kpi"
)

type fakeGateway struct {
	listTable   string
	listFilters map[string]any
	createData  map[string]any
	updateID    string
	updateData  map[string]any
	deletedID   string
	notesClient string
	savedNotes  []NoteInput

	getErr    error
	updateErr error
	deleteErr error
}

func (f *fakeGateway) List(
	_ context.Context,
	table Table,
	filters map[string]any,
) ([]map[string]any, error) {
	f.listTable = table.Name
	f.listFilters = filters
	return []map[string]any{{"id": "row-1"}}, nil
}

func (f *fakeGateway) Get(
	_ context.Context,
	table Table,
	id string,
) (map[string]any, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return map[string]any{"id": id}, nil
}

func (f *fakeGateway) Create(
	_ context.Context,
	table Table,
	data map[string]any,
) (map[string]any, error) {
	f.createData = data
	return map[string]any{"id": "created"}, nil
}

func (f *fakeGateway) Update(
	_ context.Context,
	table Table,
	id string,
	data map[string]any,
) (map[string]any, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updateID = id
	f.updateData = data
	return map[string]any{"id": id}, nil
}

func (f *fakeGateway) Delete(_ context.Context, table Table, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

func (f *fakeGateway) SaveNotes(
	_ context.Context,
	clientID string,
	notes []NoteInput,
) error {
	f.notesClient = clientID
	f.savedNotes = notes
	return nil
}

func (f *fakeGateway) CashPositions(
	_ context.Context,
) ([]kpi.CashPosition, error) {
	return nil, nil
}

func (f *fakeGateway) MonthlyBurns(_ context.Context) ([]kpi.MonthlyBurn, error) {
	return nil, nil
}

func (f *fakeGateway) Customers(_ context.Context) ([]kpi.Customer, error) {
	return nil, nil
}

func (f *fakeGateway) EmployeeCounts(
	_ context.Context,
) ([]kpi.EmployeeCount, error) {
	return nil, nil
}

func (f *fakeGateway) PipelineClients(
	_ context.Context,
) ([]kpi.PipelineClient, error) {
	return nil, nil
}

func (f *fakeGateway) QuarterGoals(_ context.Context) ([]kpi.QuarterGoal, error) {
	return nil, nil
}

func (f *fakeGateway) PipelineNotes(
	_ context.Context,
) ([]kpi.PipelineNote, error) {
	return nil, nil
}

func newTestService(gateway *fakeGateway) *Service {
	return NewService(gateway, kpi.New(gateway, nil))
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestReadUnknownOperation(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Read(context.Background(), ReadRequest{Operation: "drop"})
	assertCode(t, err, "INVALID_OPERATION")
}

func TestReadUnknownTable(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Read(context.Background(), ReadRequest{
		Operation: OpList,
		Table:     "pg_catalog.pg_tables",
	})
	assertCode(t, err, "INVALID_TABLE")
}

func TestReadListDropsUnknownFilters(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway)

	_, err := svc.Read(context.Background(), ReadRequest{
		Operation: OpList,
		Table:     TableCustomers,
		Filters: map[string]any{
			"status":       "active",
			"hacked_field": "1=1",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, TableCustomers, gateway.listTable)
	assert.Equal(t, map[string]any{"status": "active"}, gateway.listFilters)
}

func TestReadGetRequiresID(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Read(context.Background(), ReadRequest{
		Operation: OpGet,
		Table:     TableCustomers,
	})
	assertCode(t, err, "MISSING_IDENTIFIER")
}

func TestReadGetNotFound(t *testing.T) {
	svc := newTestService(&fakeGateway{getErr: core.ErrNotFound})

	_, err := svc.Read(context.Background(), ReadRequest{
		Operation: OpGet,
		Table:     TableCustomers,
		ID:        "missing",
	})
	assertCode(t, err, "NOT_FOUND")
}

func TestReadGetKPIsReturnsSnapshot(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	result, err := svc.Read(
		context.Background(),
		ReadRequest{Operation: OpGetKPIs},
	)
	require.NoError(t, err)

	snapshot, ok := result.(*kpi.Snapshot)
	require.True(t, ok)
	assert.NotNil(t, snapshot.PipelineMatrix)
}

func TestWriteCreateFiltersFields(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway)

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpCreate,
		Table:     TableCustomers,
		Data: map[string]any{
			"name":         "Acme",
			"arr":          120000.0,
			"id":           "attacker-chosen",
			"is_admin":     true,
			"hacked_field": "x",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name": "Acme",
		"arr":  120000.0,
	}, gateway.createData)
}

func TestWriteCreateNoValidFields(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpCreate,
		Table:     TableCustomers,
		Data:      map[string]any{"id": "x", "bogus": 1},
	})
	assertCode(t, err, "NO_VALID_FIELDS")
}

func TestWriteUpdateRequiresID(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpUpdate,
		Table:     TableCustomers,
		Data:      map[string]any{"name": "Acme"},
	})
	assertCode(t, err, "MISSING_IDENTIFIER")
}

func TestWriteUpdateNotFound(t *testing.T) {
	svc := newTestService(&fakeGateway{updateErr: core.ErrNotFound})

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpUpdate,
		Table:     TableCustomers,
		ID:        "missing",
		Data:      map[string]any{"name": "Acme"},
	})
	assertCode(t, err, "NOT_FOUND")
}

func TestWriteEnumValidation(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		data    map[string]any
		wantErr bool
	}{
		{
			name:    "valid segment and stage",
			table:   TablePipelineClients,
			data:    map[string]any{"name": "X", "segment": "smb", "stage": "pilot"},
			wantErr: false,
		},
		{
			name:    "invalid segment",
			table:   TablePipelineClients,
			data:    map[string]any{"name": "X", "segment": "enterprise"},
			wantErr: true,
		},
		{
			name:    "invalid stage",
			table:   TablePipelineClients,
			data:    map[string]any{"name": "X", "segment": "smb", "stage": "won"},
			wantErr: true,
		},
		{
			name:    "valid quarter goal",
			table:   TableQuarterGoals,
			data:    map[string]any{"quarter": 2.0, "year": 2026.0, "metric_type": "ARR"},
			wantErr: false,
		},
		{
			name:    "quarter out of range",
			table:   TableQuarterGoals,
			data:    map[string]any{"quarter": 5.0, "year": 2026.0},
			wantErr: true,
		},
		{
			name:    "fractional quarter",
			table:   TableQuarterGoals,
			data:    map[string]any{"quarter": 1.5, "year": 2026.0},
			wantErr: true,
		},
		{
			name:    "invalid metric type",
			table:   TableQuarterGoals,
			data:    map[string]any{"quarter": 1.0, "metric_type": "revenue"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeGateway{})

			_, err := svc.Write(context.Background(), WriteRequest{
				Operation: OpCreate,
				Table:     tt.table,
				Data:      tt.data,
			})

			if tt.wantErr {
				assertCode(t, err, "MALFORMED_INPUT")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteDelete(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway)

	result, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpDelete,
		Table:     TableCustomers,
		ID:        "row-9",
	})
	require.NoError(t, err)

	assert.Equal(t, SuccessResponse{Success: true}, result)
	assert.Equal(t, "row-9", gateway.deletedID)
}

func TestWriteSaveNotes(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newTestService(gateway)

	notes := []NoteInput{
		{ID: "n1", Content: "call scheduled", SortOrder: 0},
		{Content: "send pilot proposal", SortOrder: 1},
	}

	result, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpSaveNotes,
		ClientID:  "client-1",
		Notes:     notes,
	})
	require.NoError(t, err)

	assert.Equal(t, SuccessResponse{Success: true}, result)
	assert.Equal(t, "client-1", gateway.notesClient)
	assert.Equal(t, notes, gateway.savedNotes)
}

func TestWriteSaveNotesRequiresClientID(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpSaveNotes,
		Notes:     []NoteInput{{Content: "x"}},
	})
	assertCode(t, err, "MISSING_IDENTIFIER")
}

func TestWriteSaveNotesRequiresContent(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Write(context.Background(), WriteRequest{
		Operation: OpSaveNotes,
		ClientID:  "client-1",
		Notes:     []NoteInput{{Content: ""}},
	})
	assertCode(t, err, "MALFORMED_INPUT")
}

func TestWriteUnknownOperation(t *testing.T) {
	svc := newTestService(&fakeGateway{})

	_, err := svc.Write(
		context.Background(),
		WriteRequest{Operation: "truncate"},
	)
	assertCode(t, err, "INVALID_OPERATION")
}
