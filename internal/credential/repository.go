// AngelaMos | 2026
// repository.go

package credential

import (
	"context"
	"fmt"

	"github.com/artemiscap/dashboard-api/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Record, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, user_name, is_management, password_hash, password_plain,
		       created_at, updated_at
		FROM dashboard_users
		ORDER BY created_at ASC`

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	return records, nil
}
