// AngelaMos | 2026
// service_test.go

package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemiscap/dashboard-api/internal/core"
)

type fakeRepo struct {
	records []Record
	err     error
}

func (f *fakeRepo) List(_ context.Context) ([]Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func hashed(t *testing.T, password string) *string {
	t.Helper()
	h, err := core.HashPassword(password)
	require.NoError(t, err)
	return &h
}

func TestVerifyHashedMatch(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		{
			ID:           "u1",
			UserName:     "viewer",
			PasswordHash: hashed(t, "viewer-pass"),
		},
		{
			ID:           "u2",
			UserName:     "ops",
			IsManagement: true,
			PasswordHash: hashed(t, "ops-pass"),
		},
	}}
	svc := NewService(repo)

	identity, err := svc.Verify(context.Background(), "ops-pass")
	require.NoError(t, err)
	assert.Equal(t, "ops", identity.UserName)
	assert.True(t, identity.IsManagement)

	identity, err = svc.Verify(context.Background(), "viewer-pass")
	require.NoError(t, err)
	assert.Equal(t, "viewer", identity.UserName)
	assert.False(t, identity.IsManagement)
}

func TestVerifyPlaintextFallback(t *testing.T) {
	legacy := "legacy-pass"
	repo := &fakeRepo{records: []Record{
		{ID: "u1", UserName: "legacy", PasswordPlain: &legacy},
	}}
	svc := NewService(repo)

	identity, err := svc.Verify(context.Background(), "legacy-pass")
	require.NoError(t, err)
	assert.Equal(t, "legacy", identity.UserName)
}

func TestVerifyHashPreferredOverPlaintext(t *testing.T) {
	stale := "stale-plaintext"
	repo := &fakeRepo{records: []Record{
		{
			ID:            "u1",
			UserName:      "migrated",
			PasswordHash:  hashed(t, "current-pass"),
			PasswordPlain: &stale,
		},
	}}
	svc := NewService(repo)

	// Once a hash exists the plaintext arm is dead, even if it still holds
	// an old value.
	_, err := svc.Verify(context.Background(), "stale-plaintext")
	assert.ErrorIs(t, err, core.ErrInvalidCredential)

	identity, err := svc.Verify(context.Background(), "current-pass")
	require.NoError(t, err)
	assert.Equal(t, "migrated", identity.UserName)
}

func TestVerifyNoMatch(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		{ID: "u1", UserName: "ops", PasswordHash: hashed(t, "ops-pass")},
	}}
	svc := NewService(repo)

	_, err := svc.Verify(context.Background(), "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredential)
}

func TestVerifyEmptyRecordSkipped(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		{ID: "u1", UserName: "broken"},
	}}
	svc := NewService(repo)

	_, err := svc.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, core.ErrInvalidCredential)
}

func TestVerifyStorageFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := NewService(repo)

	_, err := svc.Verify(context.Background(), "anything")

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "STORAGE_FAILURE", appErr.Code)
	assert.NotErrorIs(t, err, core.ErrInvalidCredential)
}
