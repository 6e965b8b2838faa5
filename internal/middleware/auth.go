// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/artemiscap/dashboard-api/internal/core"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller: the matched credential record's
// display name and management flag. The flag, not the name, gates write
// operations.
type Identity struct {
	UserName     string
	IsManagement bool
}

// CredentialVerifier checks a caller-supplied password against the stored
// credential records. There is no session: this runs on every request.
type CredentialVerifier interface {
	Verify(ctx context.Context, password string) (*Identity, error)
}

// Authenticator requires a valid credential in headerName on every request.
// Preflight requests never reach this middleware; the CORS guard
// short-circuits them earlier in the chain.
func Authenticator(
	verifier CredentialVerifier,
	headerName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := r.Header.Get(headerName)
			if credential == "" {
				core.JSONError(w, core.UnauthenticatedError())
				return
			}

			identity, err := verifier.Verify(r.Context(), credential)
			if err != nil {
				if errors.Is(err, core.ErrInvalidCredential) {
					core.JSONError(w, core.InvalidCredentialError())
					return
				}
				core.JSONError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManagement rejects callers whose credential record lacks the
// management flag. Write enforcement happens here, server-side, regardless
// of what the client claims it may attempt.
func RequireManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())

		if identity == nil {
			core.JSONError(w, core.UnauthenticatedError())
			return
		}

		if !identity.IsManagement {
			core.JSONError(
				w,
				core.ForbiddenError("management access required"),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func IsManagement(ctx context.Context) bool {
	identity := GetIdentity(ctx)
	return identity != nil && identity.IsManagement
}
