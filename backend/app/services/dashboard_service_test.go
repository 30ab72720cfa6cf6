package services

import (
	"context"
	"testing"

	"taskmanager/backend/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_StatsFor(t *testing.T) {
	f := newFixture(t)
	admin := f.mkUser(t, "admin", models.RoleAdmin)
	bob := f.mkUser(t, "bob", "")
	carol := f.mkUser(t, "carol", "")
	ctx := context.Background()

	b1 := f.mkTask(t, admin, bob, "b1")
	f.mkTask(t, admin, bob, "b2")
	c1 := f.mkTask(t, admin, carol, "c1")
	_, err := f.tasks.Update(ctx, b1.ID, UpdateTaskInput{Status: ptr(models.StatusCompleted)}, bob)
	require.NoError(t, err)
	_, err = f.tasks.Update(ctx, c1.ID, UpdateTaskInput{Status: ptr(models.StatusInProgress)}, carol)
	require.NoError(t, err)

	s, err := f.dashboard.StatsFor(ctx, admin)
	require.NoError(t, err)
	assert.True(t, s.Admin)
	assert.Equal(t, int64(3), s.TotalUsers)
	assert.Equal(t, models.StatusCounts{Total: 3, Pending: 1, InProgress: 1, Completed: 1}, s.Tasks)

	s, err = f.dashboard.StatsFor(ctx, bob)
	require.NoError(t, err)
	assert.False(t, s.Admin)
	assert.Zero(t, s.TotalUsers)
	assert.Equal(t, models.StatusCounts{Total: 2, Pending: 1, Completed: 1}, s.Tasks)

	s, err = f.dashboard.StatsFor(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, s.Tasks.Total, s.Tasks.Pending+s.Tasks.InProgress+s.Tasks.Completed)
}

func TestDashboardService_Empty(t *testing.T) {
	f := newFixture(t)
	bob := f.mkUser(t, "bob", "")
	s, err := f.dashboard.StatsFor(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{}, s.Tasks)
}
