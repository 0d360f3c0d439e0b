package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

func TestMatchesFilters(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	due := func(offset time.Duration) *time.Time {
		d := now.Add(offset)
		return &d
	}

	testCases := []struct {
		name    string
		task    *models.Task
		filters TaskFilters
		want    bool
	}{
		{
			name:    "no filters match everything",
			task:    &models.Task{Status: models.StatusPending, Priority: models.PriorityLow},
			filters: TaskFilters{},
			want:    true,
		},
		{
			name:    "status match",
			task:    &models.Task{Status: models.StatusInProgress},
			filters: TaskFilters{Status: models.StatusInProgress},
			want:    true,
		},
		{
			name:    "status mismatch",
			task:    &models.Task{Status: models.StatusDone},
			filters: TaskFilters{Status: models.StatusPending},
			want:    false,
		},
		{
			name:    "priority mismatch",
			task:    &models.Task{Priority: models.PriorityLow},
			filters: TaskFilters{Priority: models.PriorityHigh},
			want:    false,
		},
		{
			name:    "overdue with past due date",
			task:    &models.Task{DueDate: due(-time.Hour)},
			filters: TaskFilters{DueBucket: DueBucketOverdue},
			want:    true,
		},
		{
			name:    "overdue with future due date",
			task:    &models.Task{DueDate: due(time.Hour)},
			filters: TaskFilters{DueBucket: DueBucketOverdue},
			want:    false,
		},
		{
			name:    "overdue without due date",
			task:    &models.Task{},
			filters: TaskFilters{DueBucket: DueBucketOverdue},
			want:    false,
		},
		{
			name:    "week includes tomorrow",
			task:    &models.Task{DueDate: due(24 * time.Hour)},
			filters: TaskFilters{DueBucket: DueBucketWeek},
			want:    true,
		},
		{
			name:    "week excludes overdue",
			task:    &models.Task{DueDate: due(-time.Hour)},
			filters: TaskFilters{DueBucket: DueBucketWeek},
			want:    false,
		},
		{
			name:    "week excludes eight days out",
			task:    &models.Task{DueDate: due(8 * 24 * time.Hour)},
			filters: TaskFilters{DueBucket: DueBucketWeek},
			want:    false,
		},
		{
			name: "combined filters",
			task: &models.Task{
				Status:   models.StatusPending,
				Priority: models.PriorityHigh,
				DueDate:  due(-time.Hour),
			},
			filters: TaskFilters{
				Status:    models.StatusPending,
				Priority:  models.PriorityHigh,
				DueBucket: DueBucketOverdue,
			},
			want: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesFilters(tc.task, tc.filters, now))
		})
	}
}

func TestValidTaskStatus(t *testing.T) {
	assert.True(t, validTaskStatus(models.StatusPending))
	assert.True(t, validTaskStatus(models.StatusInProgress))
	assert.True(t, validTaskStatus(models.StatusDone))
	assert.False(t, validTaskStatus("archived"))
	assert.False(t, validTaskStatus(""))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, validPriority(models.PriorityHigh))
	assert.True(t, validPriority(models.PriorityMedium))
	assert.True(t, validPriority(models.PriorityLow))
	assert.False(t, validPriority("urgent"))
}
