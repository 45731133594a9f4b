// Package priority derives a delivery's age and urgency bucket from its creation time.
package priority

import (
	"sort"
	"time"

	"delivery-tracker/internal/clock"
	"delivery-tracker/internal/domain"
)

const day = 24 * time.Hour

// Thresholds in whole days.
const (
	HighAfterDays   = 3
	UrgentAfterDays = 5
)

// Classifier computes ages against an injected clock.
type Classifier struct {
	clock clock.Clock
}

// NewClassifier returns a Classifier reading "now" from c.
func NewClassifier(c clock.Clock) *Classifier {
	if c == nil {
		c = clock.Real{}
	}
	return &Classifier{clock: c}
}

// DaysSince returns whole days elapsed since createdAt, never negative.
// A zero createdAt (missing in the sheet) counts as 0 days.
func (c *Classifier) DaysSince(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	elapsed := c.clock.Now().Sub(createdAt)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / day)
}

// Classify buckets an age in days.
func Classify(days int) domain.Priority {
	switch {
	case days >= UrgentAfterDays:
		return domain.PriorityUrgent
	case days >= HighAfterDays:
		return domain.PriorityHigh
	default:
		return domain.PriorityNormal
	}
}

// View decorates d with its age and priority.
func (c *Classifier) View(d domain.Delivery) domain.View {
	days := c.DaysSince(d.CreatedAt)
	return domain.View{Delivery: d, AgeDays: days, Priority: Classify(days)}
}

// Views decorates every delivery, keeping order.
func (c *Classifier) Views(list []domain.Delivery) []domain.View {
	out := make([]domain.View, 0, len(list))
	for _, d := range list {
		out = append(out, c.View(d))
	}
	return out
}

// SortByUrgency orders views oldest first. Ties keep their sheet order.
func SortByUrgency(views []domain.View) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].AgeDays > views[j].AgeDays
	})
}
