// Package service implements the operations the presentation layer calls:
// account management and recovery, savings goals, personal expenses, pods
// with shared-expense splitting, and the activity streak. Every mutating
// operation validates its input first, edits the in-memory document, and
// persists through the ledger before returning.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bondi/internal/logger"
	"bondi/internal/models"
	"bondi/internal/storage"
)

// Failure kinds surfaced to the caller. Match with errors.Is.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidSplit       = errors.New("split does not reconcile with the total")
	ErrIncompleteSplit    = errors.New("split does not cover every pod member")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateMember    = errors.New("user is already a pod member")
	ErrEmptyMembership    = errors.New("pod needs at least one member")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("password must not be empty")
	ErrNotFound           = errors.New("not found")
)

var validate = validator.New()

// Service exposes the application operations over a single ledger.
type Service struct {
	ledger *storage.Ledger
	log    logger.Logger
	now    func() time.Time
}

// New creates a Service backed by the given ledger.
func New(ledger *storage.Ledger, log logger.Logger) *Service {
	return &Service{ledger: ledger, log: log, now: time.Now}
}

func (s *Service) user(username string) (*models.User, error) {
	u, ok := s.ledger.Document().Users[normalizeUsername(username)]
	if !ok {
		return nil, errorsNotFound("user", username)
	}
	return u, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func errorsNotFound(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}
