package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bondi/internal/models"
)

// DefaultCategory is used when an expense is recorded without one.
const DefaultCategory = "General"

// AddExpense records an immutable personal expense and counts it as streak
// activity.
func (s *Service) AddExpense(username string, amount decimal.Decimal, category, note string) (*models.Expense, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense %s: %w", amount, ErrInvalidAmount)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	expense := &models.Expense{
		ID:       uuid.NewString(),
		Amount:   amount.Round(2),
		Category: category,
		Note:     strings.TrimSpace(note),
		Date:     s.now(),
	}
	user.Expenses = append(user.Expenses, expense)
	s.recordActivity(user)

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Debugf("%s spent %s on %s", user.Username, expense.Amount, expense.Category)
	return expense, nil
}

// TotalSpending sums all of the user's personal expenses.
func (s *Service) TotalSpending(username string) (decimal.Decimal, error) {
	user, err := s.user(username)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range user.Expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// Expenses returns the user's expenses sorted by amount, largest first.
func (s *Service) Expenses(username string) ([]*models.Expense, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Expense, len(user.Expenses))
	copy(out, user.Expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}
