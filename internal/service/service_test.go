package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bondi/internal/logger"
	"bondi/internal/models"
	"bondi/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ledger, err := storage.Open(filepath.Join(t.TempDir(), "ledger.json"), logger.Nop())
	require.NoError(t, err, "failed to open test ledger")
	return New(ledger, logger.Nop())
}

func mustSignup(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	user, err := svc.CreateAccount(SignupRequest{
		FullName:     "Test " + username,
		Email:        username + "@example.com",
		Username:     username,
		Password:     "hunter22",
		RecoveryWord: "blue",
	})
	require.NoError(t, err, "failed to sign up %s", username)
	return user
}
