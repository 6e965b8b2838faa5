// AngelaMos | 2026
// service.go

package records

import (
	"context"
	"errors"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/kpi"
)

// Service is the request router/authorizer: it validates operation, table,
// identifier, and field names against the whitelists, then dispatches to
// the storage gateway with exactly the filtered arguments.
type Service struct {
	gateway    Gateway
	aggregator *kpi.Aggregator
}

func NewService(gateway Gateway, aggregator *kpi.Aggregator) *Service {
	return &Service{
		gateway:    gateway,
		aggregator: aggregator,
	}
}

func (s *Service) Read(ctx context.Context, req ReadRequest) (any, error) {
	switch req.Operation {
	case OpGetKPIs:
		snapshot, err := s.aggregator.Snapshot(ctx)
		if err != nil {
			return nil, core.StorageError(err)
		}
		return snapshot, nil

	case OpList:
		table, ok := Lookup(req.Table)
		if !ok {
			return nil, core.InvalidTableError(req.Table)
		}

		// Filters on non-whitelisted columns are dropped, same as write
		// payload fields.
		filters := table.FilterColumns(req.Filters)

		rows, err := s.gateway.List(ctx, table, filters)
		if err != nil {
			return nil, core.StorageError(err)
		}
		return rows, nil

	case OpGet:
		table, ok := Lookup(req.Table)
		if !ok {
			return nil, core.InvalidTableError(req.Table)
		}
		if req.ID == "" {
			return nil, core.MissingIdentifierError(req.Operation)
		}

		row, err := s.gateway.Get(ctx, table, req.ID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.NotFoundError(table.Name + " row")
			}
			return nil, core.StorageError(err)
		}
		return row, nil

	default:
		return nil, core.InvalidOperationError(req.Operation)
	}
}

func (s *Service) Write(ctx context.Context, req WriteRequest) (any, error) {
	switch req.Operation {
	case OpCreate:
		table, ok := Lookup(req.Table)
		if !ok {
			return nil, core.InvalidTableError(req.Table)
		}

		data := table.FilterColumns(req.Data)
		if len(data) == 0 {
			return nil, core.NoValidFieldsError(table.Name)
		}
		if err := validateEnums(table.Name, data); err != nil {
			return nil, err
		}

		row, err := s.gateway.Create(ctx, table, data)
		if err != nil {
			return nil, core.StorageError(err)
		}
		return row, nil

	case OpUpdate:
		table, ok := Lookup(req.Table)
		if !ok {
			return nil, core.InvalidTableError(req.Table)
		}
		if req.ID == "" {
			return nil, core.MissingIdentifierError(req.Operation)
		}

		data := table.FilterColumns(req.Data)
		if len(data) == 0 {
			return nil, core.NoValidFieldsError(table.Name)
		}
		if err := validateEnums(table.Name, data); err != nil {
			return nil, err
		}

		row, err := s.gateway.Update(ctx, table, req.ID, data)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.NotFoundError(table.Name + " row")
			}
			return nil, core.StorageError(err)
		}
		return row, nil

	case OpDelete:
		table, ok := Lookup(req.Table)
		if !ok {
			return nil, core.InvalidTableError(req.Table)
		}
		if req.ID == "" {
			return nil, core.MissingIdentifierError(req.Operation)
		}

		if err := s.gateway.Delete(ctx, table, req.ID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.NotFoundError(table.Name + " row")
			}
			return nil, core.StorageError(err)
		}
		return SuccessResponse{Success: true}, nil

	case OpSaveNotes:
		if req.ClientID == "" {
			return nil, core.MissingIdentifierError(req.Operation)
		}
		for _, note := range req.Notes {
			if note.Content == "" {
				return nil, core.MalformedInputError("note content is required")
			}
		}

		if err := s.gateway.SaveNotes(ctx, req.ClientID, req.Notes); err != nil {
			return nil, core.StorageError(err)
		}
		return SuccessResponse{Success: true}, nil

	default:
		return nil, core.InvalidOperationError(req.Operation)
	}
}
