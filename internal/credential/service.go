// AngelaMos | 2026
// service.go

package credential

import (
	"context"
	"log/slog"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/middleware"
)

// Service authenticates a caller-supplied password against all stored
// credential records. First match wins. It implements
// middleware.CredentialVerifier, so the same check backs both the login
// endpoint and the per-request gate on data routes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Verify(
	ctx context.Context,
	password string,
) (*middleware.Identity, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, core.StorageError(err)
	}

	for i := range records {
		record := &records[i]

		secret, ok := record.Secret()
		if !ok {
			continue
		}

		if !secret.Matches(password) {
			continue
		}

		if secret.IsLegacy() {
			slog.Warn("credential record matched via plaintext fallback, "+
				"pending hash migration",
				"user", record.UserName,
			)
		}

		return &middleware.Identity{
			UserName:     record.UserName,
			IsManagement: record.IsManagement,
		}, nil
	}

	// Burn a derivation so a miss costs the same as a hash comparison.
	core.VerifyPasswordTimingSafe(password, nil)

	return nil, core.ErrInvalidCredential
}
