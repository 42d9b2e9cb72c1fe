package service

import (
	"time"

	"bondi/internal/models"
)

const dayFormat = "2006-01-02"

// RecordActivity advances a user's streak for a qualifying activity on the
// given day. Several activities on one day count once; a day-after activity
// increments; any other gap, including days arriving out of order, resets
// the count to 1. Callers persist the document afterwards.
func RecordActivity(user *models.User, day time.Time) {
	d := day.Format(dayFormat)
	st := &user.Streak
	if st.LastActiveOn == d {
		return
	}

	prev := st.Count
	st.Count = 1
	if st.LastActiveOn != "" {
		if last, err := time.Parse(dayFormat, st.LastActiveOn); err == nil {
			if last.AddDate(0, 0, 1).Format(dayFormat) == d {
				st.Count = prev + 1
			}
		}
	}
	st.LastActiveOn = d
}

// Badge thresholds, ascending. The highest one met wins.
var badgeTiers = []struct {
	min   int
	label string
}{
	{30, "Legendary"},
	{14, "On Fire"},
	{7, "Streaker"},
	{3, "Getting Consistent"},
	{1, "Day 1"},
}

// Badge returns the label for the current streak count, or "" before the
// first activity.
func Badge(count int) string {
	for _, tier := range badgeTiers {
		if count >= tier.min {
			return tier.label
		}
	}
	return ""
}

func (s *Service) recordActivity(user *models.User) {
	RecordActivity(user, s.now())
}
