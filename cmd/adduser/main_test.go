package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	tmpDir := t.TempDir()
	ledgerPath := filepath.Join(tmpDir, "ledger.json")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{
		"-user", "testuser", "-full-name", "Test User", "-email", "test@example.com",
		"-password", "secret99", "-recovery-word", "blue", "-ledger", ledgerPath,
	}
	err := run(args, stdin, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Account testuser created successfully")
	assert.FileExists(t, ledgerPath)
}

func TestRun_DuplicateUser(t *testing.T) {
	tmpDir := t.TempDir()
	ledgerPath := filepath.Join(tmpDir, "ledger.json")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{
		"-user", "testuser", "-full-name", "Test User", "-email", "test@example.com",
		"-password", "secret99", "-recovery-word", "blue", "-ledger", ledgerPath,
	}

	// First run
	err := run(args, stdin, stdout, stderr)
	require.NoError(t, err, "first run should succeed")

	// Second run
	stdout.Reset()
	stderr.Reset()
	err = run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error on duplicate user")
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-password", "secret99"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error for missing flags")
	assert.Contains(t, err.Error(), "missing required flags: user, full-name, email")

	// Usage should be printed
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InteractiveSecrets(t *testing.T) {
	tmpDir := t.TempDir()
	ledgerPath := filepath.Join(tmpDir, "ledger.json")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	// Simulate the user typing a password and a recovery word.
	stdin := bytes.NewBufferString("interactive_secret\ncereal\n")

	args := []string{
		"-user", "interactive_user", "-full-name", "Inter Active",
		"-email", "inter@example.com", "-ledger", ledgerPath,
	}
	err := run(args, stdin, stdout, stderr)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Password: ")
	assert.Contains(t, output, "Recovery word: ")
	assert.Contains(t, output, "Account interactive_user created successfully")
}

func TestRun_EmptyPassword(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	// Simulate the user typing newline (empty password).
	stdin := bytes.NewBufferString("\n")

	args := []string{"-user", "empty_pass", "-full-name", "Empty Pass", "-email", "empty@example.com"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error for empty password")
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_InvalidLedgerPath(t *testing.T) {
	// A directory as the ledger file path should fail.
	tmpDir := t.TempDir()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{
		"-user", "failuser", "-full-name", "Fail User", "-email", "fail@example.com",
		"-password", "secret99", "-recovery-word", "blue", "-ledger", tmpDir,
	}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error for invalid ledger path")
	assert.Contains(t, err.Error(), "failed to open ledger")
}

func TestRun_InvalidFlag(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-invalid"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error for invalid flag")
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
