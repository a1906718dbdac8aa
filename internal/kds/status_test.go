package kds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expediter/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		statuses map[string]models.StationStatus
		want     models.StationStatus
	}{
		{
			name:     "all pending",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusPending, "bar": models.StatusPending},
			want:     models.StatusPending,
		},
		{
			name:     "one preparing",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusPreparing, "bar": models.StatusPending},
			want:     models.StatusPreparing,
		},
		{
			name:     "all ready",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusReady, "bar": models.StatusReady},
			want:     models.StatusReady,
		},
		{
			name:     "mixed pending and ready without preparing",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusReady, "bar": models.StatusPending},
			want:     models.StatusPreparing,
		},
		{
			name:     "preparing beats a ready station",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusReady, "bar": models.StatusPreparing},
			want:     models.StatusPreparing,
		},
		{
			name:     "single ready station",
			statuses: map[string]models.StationStatus{"kitchen": models.StatusReady},
			want:     models.StatusReady,
		},
		{
			name:     "empty map",
			statuses: map[string]models.StationStatus{},
			want:     models.StatusPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.statuses))
		})
	}
}

func TestAllStationsReady(t *testing.T) {
	assert.True(t, allStationsReady(map[string]models.StationStatus{
		"kitchen": models.StatusReady,
		"bar":     models.StatusReady,
	}))
	assert.False(t, allStationsReady(map[string]models.StationStatus{
		"kitchen": models.StatusReady,
		"bar":     models.StatusPreparing,
	}))
	assert.False(t, allStationsReady(map[string]models.StationStatus{}))
}
