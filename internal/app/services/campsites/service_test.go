package campsites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ombrage/campground/internal/app/storage/memory"
	apperrors "github.com/ombrage/campground/internal/errors"
)

func TestCampsiteCRUD(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	created, err := svc.Create(ctx, CreateParams{Name: "Pitch 12", Type: "tent", Status: "open"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Pitch 12", created.Name)

	updated, err := svc.Update(ctx, created.ID, CreateParams{Name: "Pitch 12", Type: "caravan", Status: "closed"})
	require.NoError(t, err)
	assert.Equal(t, "caravan", updated.Type)
	assert.Equal(t, "closed", updated.Status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCampsiteNameRequired(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	_, err := svc.Create(ctx, CreateParams{Type: "tent"})
	require.Error(t, err)
	svcErr := apperrors.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, apperrors.CodeValidation, svcErr.Code)
}

func TestCampsiteUpdateUnknown(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	_, err := svc.Update(ctx, "cs-missing", CreateParams{Name: "Pitch 1"})
	assert.True(t, apperrors.IsNotFound(err))
}
