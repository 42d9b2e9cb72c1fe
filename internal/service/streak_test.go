package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bondi/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse(dayFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordActivity_ConsecutiveDays(t *testing.T) {
	user := &models.User{}

	RecordActivity(user, day("2026-01-01"))
	RecordActivity(user, day("2026-01-02"))
	RecordActivity(user, day("2026-01-03"))

	assert.Equal(t, 3, user.Streak.Count)
	assert.Equal(t, "2026-01-03", user.Streak.LastActiveOn)
}

func TestRecordActivity_GapResets(t *testing.T) {
	user := &models.User{}

	RecordActivity(user, day("2026-01-01"))
	RecordActivity(user, day("2026-01-04"))

	assert.Equal(t, 1, user.Streak.Count)
	assert.Equal(t, "2026-01-04", user.Streak.LastActiveOn)
}

func TestRecordActivity_SameDayIsIdempotent(t *testing.T) {
	user := &models.User{}

	RecordActivity(user, day("2026-01-01"))
	RecordActivity(user, day("2026-01-02"))
	RecordActivity(user, day("2026-01-02"))

	assert.Equal(t, 2, user.Streak.Count)
}

func TestRecordActivity_OutOfOrderDayResets(t *testing.T) {
	user := &models.User{}

	RecordActivity(user, day("2026-01-05"))
	RecordActivity(user, day("2026-01-06"))
	RecordActivity(user, day("2026-01-02"))

	assert.Equal(t, 1, user.Streak.Count)
	assert.Equal(t, "2026-01-02", user.Streak.LastActiveOn)
}

func TestRecordActivity_MonthBoundary(t *testing.T) {
	user := &models.User{}

	RecordActivity(user, day("2026-01-31"))
	RecordActivity(user, day("2026-02-01"))

	assert.Equal(t, 2, user.Streak.Count)
}

func TestBadge(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{0, ""},
		{1, "Day 1"},
		{2, "Day 1"},
		{3, "Getting Consistent"},
		{6, "Getting Consistent"},
		{7, "Streaker"},
		{13, "Streaker"},
		{14, "On Fire"},
		{29, "On Fire"},
		{30, "Legendary"},
		{365, "Legendary"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Badge(tc.count), "count=%d", tc.count)
	}
}
