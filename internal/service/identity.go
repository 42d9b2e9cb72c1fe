package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"bondi/internal/auth"
	"bondi/internal/models"
)

// SignupRequest holds the fields needed to create an account.
type SignupRequest struct {
	FullName     string `validate:"required"`
	Email        string `validate:"required,email"`
	Username     string `validate:"required,min=2"`
	Password     string `validate:"required,min=4"`
	RecoveryWord string `validate:"required"`
}

// Session identifies an authenticated user to the presentation layer. It is
// returned by Login and passed back explicitly instead of living in a
// global.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// CreateAccount validates the signup fields and registers a new user.
// Usernames are stored lower-cased and must be unique; the password and the
// recovery word are stored as bcrypt hashes.
func (s *Service) CreateAccount(req SignupRequest) (*models.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}

	username := normalizeUsername(req.Username)
	doc := s.ledger.Document()

	taken := mapset.NewThreadUnsafeSet[string]()
	for name := range doc.Users {
		taken.Add(name)
	}
	if taken.Contains(username) {
		return nil, fmt.Errorf("create account %q: %w", username, ErrDuplicateUsername)
	}

	passwordHash, err := auth.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}
	recoveryHash, err := auth.HashSecret(normalizeRecoveryWord(req.RecoveryWord))
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		RecoveryHash: recoveryHash,
		CreatedAt:    s.now(),
		Goals:        []*models.Goal{},
		Expenses:     []*models.Expense{},
		PodIDs:       []string{},
	}
	doc.Users[username] = user

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Infof("account created for %s", username)
	return user, nil
}

// Login checks the credentials and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(username, password string) (*Session, error) {
	username = normalizeUsername(username)
	user, ok := s.ledger.Document().Users[username]
	if !ok || !auth.CheckSecret(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	s.log.Debugf("session opened for %s", username)
	return &Session{Token: token, Username: username, CreatedAt: s.now()}, nil
}

// RecoverUsername returns every username registered under the given email
// whose recovery word matches. The email comparison is case-insensitive.
func (s *Service) RecoverUsername(email, recoveryWord string) ([]string, error) {
	email = strings.TrimSpace(email)
	word := normalizeRecoveryWord(recoveryWord)

	var found []string
	for name, user := range s.ledger.Document().Users {
		if strings.EqualFold(user.Email, email) && auth.CheckSecret(word, user.RecoveryHash) {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no account for %s: %w", email, ErrNotFound)
	}
	sort.Strings(found)
	return found, nil
}

// RecoverPassword sets a new password after verifying the recovery word.
// An unknown username and a wrong recovery word both report ErrNotFound.
func (s *Service) RecoverPassword(username, recoveryWord, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password: %w", ErrInvalidPassword)
	}
	username = normalizeUsername(username)
	user, ok := s.ledger.Document().Users[username]
	if !ok {
		return errorsNotFound("user", username)
	}
	if !auth.CheckSecret(normalizeRecoveryWord(recoveryWord), user.RecoveryHash) {
		return fmt.Errorf("recovery word mismatch for %q: %w", username, ErrNotFound)
	}

	hash, err := auth.HashSecret(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.ledger.Save(); err != nil {
		return err
	}
	s.log.Infof("password reset for %s", username)
	return nil
}

func normalizeRecoveryWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
