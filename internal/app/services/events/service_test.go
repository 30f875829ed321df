package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ombrage/campground/internal/app/storage/memory"
	apperrors "github.com/ombrage/campground/internal/errors"
)

func TestEventCRUD(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	start := time.Date(2026, 7, 14, 18, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateParams{
		Title:         "Campfire night",
		StartDatetime: start,
		EndDatetime:   start.Add(3 * time.Hour),
		Location:      "main field",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, CreateParams{
		Title:         "Campfire night",
		StartDatetime: start,
		EndDatetime:   start.Add(4 * time.Hour),
		Location:      "lake shore",
	})
	require.NoError(t, err)
	assert.Equal(t, "lake shore", updated.Location)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEventValidation(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)
	start := time.Date(2026, 7, 14, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing title", CreateParams{StartDatetime: start, EndDatetime: start.Add(time.Hour)}},
		{"missing dates", CreateParams{Title: "Quiz"}},
		{"end before start", CreateParams{Title: "Quiz", StartDatetime: start, EndDatetime: start.Add(-time.Hour)}},
		{"zero duration", CreateParams{Title: "Quiz", StartDatetime: start, EndDatetime: start}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.params)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.GetServiceError(err).Code)
		})
	}
}
