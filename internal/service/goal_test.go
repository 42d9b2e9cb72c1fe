package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoal(t *testing.T) {
	svc := newTestService(t)
	mustSignup(t, svc, "ana")

	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	goal, err := svc.CreateGoal("ana", "Bike", dec("500"), &deadline)
	require.NoError(t, err)

	assert.NotEmpty(t, goal.ID)
	assert.True(t, goal.Target.Equal(dec("500")))
	assert.True(t, goal.Saved.IsZero())
	assert.Empty(t, goal.History)

	goals, err := svc.Goals("ana")
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestCreateGoal_InvalidTarget(t *testing.T) {
	svc := newTestService(t)
	mustSignup(t, svc, "ana")

	for _, target := range []string{"0", "-10"} {
		_, err := svc.CreateGoal("ana", "Bike", dec(target), nil)
		assert.ErrorIs(t, err, ErrInvalidAmount, "target %s", target)
	}
}

func TestCreateGoal_UnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateGoal("nobody", "Bike", dec("500"), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddContribution(t *testing.T) {
	svc := newTestService(t)
	user := mustSignup(t, svc, "ana")

	goal, err := svc.CreateGoal("ana", "Bike", dec("500"), nil)
	require.NoError(t, err)

	goal, err = svc.AddContribution("ana", goal.ID, dec("120.50"))
	require.NoError(t, err)
	goal, err = svc.AddContribution("ana", goal.ID, dec("79.50"))
	require.NoError(t, err)

	assert.True(t, goal.Saved.Equal(dec("200")), "saved = %s", goal.Saved)
	require.Len(t, goal.History, 2)
	assert.True(t, goal.History[0].Amount.Equal(dec("120.50")))
	assert.True(t, goal.History[1].Amount.Equal(dec("79.50")))

	// Contributions count as streak activity.
	assert.Equal(t, 1, user.Streak.Count)
	assert.NotEmpty(t, user.Streak.LastActiveOn)
}

func TestAddContribution_InvalidAmount(t *testing.T) {
	svc := newTestService(t)
	mustSignup(t, svc, "ana")
	goal, err := svc.CreateGoal("ana", "Bike", dec("500"), nil)
	require.NoError(t, err)

	_, err = svc.AddContribution("ana", goal.ID, dec("0"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddContribution_UnknownGoal(t *testing.T) {
	svc := newTestService(t)
	mustSignup(t, svc, "ana")

	_, err := svc.AddContribution("ana", "no-such-goal", dec("10"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalProgress_OverSavingAllowed(t *testing.T) {
	svc := newTestService(t)
	mustSignup(t, svc, "ana")
	goal, err := svc.CreateGoal("ana", "Bike", dec("100"), nil)
	require.NoError(t, err)

	goal, err = svc.AddContribution("ana", goal.ID, dec("150"))
	require.NoError(t, err)

	assert.True(t, GoalProgress(goal).Equal(dec("1.5")), "progress = %s", GoalProgress(goal))
}
