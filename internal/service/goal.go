package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bondi/internal/models"
)

// CreateGoal adds a savings goal for the user. The target must be positive;
// the deadline is optional.
func (s *Service) CreateGoal(username, name string, target decimal.Decimal, deadline *time.Time) (*models.Goal, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("goal name must not be empty")
	}
	if !target.IsPositive() {
		return nil, fmt.Errorf("goal target %s: %w", target, ErrInvalidAmount)
	}

	goal := &models.Goal{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Target:    target.Round(2),
		Saved:     decimal.Zero,
		Deadline:  deadline,
		CreatedAt: s.now(),
		History:   []models.Contribution{},
	}
	user.Goals = append(user.Goals, goal)

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Infof("goal %q created for %s", goal.Name, user.Username)
	return goal, nil
}

// AddContribution appends a saving to the goal's history and grows the
// accumulated amount. Contributions count as streak activity.
func (s *Service) AddContribution(username, goalID string, amount decimal.Decimal) (*models.Goal, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("contribution %s: %w", amount, ErrInvalidAmount)
	}

	goal := findGoal(user, goalID)
	if goal == nil {
		return nil, errorsNotFound("goal", goalID)
	}

	amount = amount.Round(2)
	goal.Saved = goal.Saved.Add(amount)
	goal.History = append(goal.History, models.Contribution{Amount: amount, Date: s.now()})
	s.recordActivity(user)

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Debugf("%s saved %s towards %q", user.Username, amount, goal.Name)
	return goal, nil
}

// Goals returns the user's goals in creation order.
func (s *Service) Goals(username string) ([]*models.Goal, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}
	return user.Goals, nil
}

// GoalProgress is saved/target. Over-saving is allowed, so the result may
// exceed 1.
func GoalProgress(goal *models.Goal) decimal.Decimal {
	return goal.Saved.Div(goal.Target)
}

func findGoal(user *models.User, goalID string) *models.Goal {
	for _, g := range user.Goals {
		if g.ID == goalID {
			return g
		}
	}
	return nil
}
