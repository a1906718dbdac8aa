package kds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"expediter/internal/models"
)

func mkView(number string, createdAt time.Time, urgency Urgency) OrderView {
	return OrderView{
		Order:   &models.Order{OrderNumber: number, CreatedAt: createdAt},
		Urgency: urgency,
	}
}

func TestUrgencyLevels(t *testing.T) {
	policy := urgencyPolicy{warningAfter: 5 * time.Minute, urgentAfter: 10 * time.Minute}
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, UrgencyNormal, policy.level(now.Add(-time.Minute), now))
	assert.Equal(t, UrgencyNormal, policy.level(now.Add(-5*time.Minute+time.Second), now))
	assert.Equal(t, UrgencyWarning, policy.level(now.Add(-5*time.Minute), now))
	assert.Equal(t, UrgencyWarning, policy.level(now.Add(-10*time.Minute+time.Second), now))
	assert.Equal(t, UrgencyUrgent, policy.level(now.Add(-10*time.Minute), now))
	assert.Equal(t, UrgencyUrgent, policy.level(now.Add(-time.Hour), now))
}

func TestAssignPriorities(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	views := []OrderView{
		mkView("a", base.Add(2*time.Minute), UrgencyUrgent),
		mkView("b", base, UrgencyUrgent),
		mkView("c", base.Add(time.Minute), UrgencyWarning),
		mkView("d", base.Add(3*time.Minute), UrgencyUrgent),
	}

	assignPriorities(views)

	// Urgent tickets numbered by creation order; others stay unnumbered.
	assert.Equal(t, 2, views[0].Priority)
	assert.Equal(t, 1, views[1].Priority)
	assert.Zero(t, views[2].Priority)
	assert.Equal(t, 3, views[3].Priority)
}

func TestSortPending(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	views := []OrderView{
		mkView("new-normal", base.Add(9*time.Minute), UrgencyNormal),
		mkView("old-normal", base.Add(8*time.Minute), UrgencyNormal),
		mkView("warning", base.Add(4*time.Minute), UrgencyWarning),
		mkView("urgent", base, UrgencyUrgent),
	}

	sortPending(views)

	assert.Equal(t, "urgent", views[0].Order.OrderNumber)
	assert.Equal(t, "warning", views[1].Order.OrderNumber)
	assert.Equal(t, "old-normal", views[2].Order.OrderNumber)
	assert.Equal(t, "new-normal", views[3].Order.OrderNumber)
}

func TestSortReadyPinsStaged(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	oldest := mkView("oldest", base, UrgencyNormal)
	staged := mkView("staged", base.Add(5*time.Minute), UrgencyNormal)
	staged.Staged = true
	middle := mkView("middle", base.Add(2*time.Minute), UrgencyNormal)

	views := []OrderView{oldest, staged, middle}
	sortReady(views)

	assert.Equal(t, "staged", views[0].Order.OrderNumber)
	assert.Equal(t, "oldest", views[1].Order.OrderNumber)
	assert.Equal(t, "middle", views[2].Order.OrderNumber)
}
