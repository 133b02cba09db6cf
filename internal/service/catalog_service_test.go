package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateCategory_SanitizesAndStamps(t *testing.T) {
	ctx := context.Background()
	repos := newMockStore()
	notifier := &recordingNotifier{}
	svc := NewCatalogService(repos.store(), notifier, zerolog.Nop()).(*catalogService)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	repos.categories.On("Create", ctx, mock.MatchedBy(func(c *model.Category) bool {
		return c.Name == "Smash Burgers" &&
			c.Description == "bscript/b" &&
			c.CreatedAt.Equal(fixed) &&
			c.UpdatedAt.Equal(fixed)
	})).Return("cat-1", nil)

	id, err := svc.CreateCategory(ctx, model.Category{
		ID:          "client-id",
		Name:        "  <Smash Burgers> ",
		Description: "<b>script</b>",
	})

	require.NoError(t, err)
	assert.Equal(t, "cat-1", id)
	assert.Equal(t, [][]string{{model.CollectionCategories}}, notifier.calls())
	repos.categories.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_ValidationFailed(t *testing.T) {
	repos := newMockStore()
	notifier := &recordingNotifier{}
	svc := NewCatalogService(repos.store(), notifier, zerolog.Nop())

	_, err := svc.CreateCategory(context.Background(), model.Category{Name: "<>"})

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Empty(t, notifier.calls())
	repos.categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_ListFailureIsFetchError(t *testing.T) {
	ctx := context.Background()
	repos := newMockStore()
	svc := NewCatalogService(repos.store(), nil, zerolog.Nop())

	repos.menuItems.On("GetAll", ctx).Return(nil, errors.New("connection refused"))

	_, err := svc.ListMenuItems(ctx)

	var fetchErr *model.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "failed to fetch burgers", err.Error())
}

func TestCatalogService_UpdateMenuItem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		repoErr    error
		wantErr    error
		wantNotify bool
	}{
		{name: "success", wantNotify: true},
		{name: "not found passes through", repoErr: model.ErrMenuItemNotFound, wantErr: model.ErrMenuItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newMockStore()
			notifier := &recordingNotifier{}
			svc := NewCatalogService(repos.store(), notifier, zerolog.Nop())

			name := " Double <Trouble> "
			ingredients := []string{" bun ", "<script>", ""}
			repos.menuItems.On("Update", ctx, "m1", mock.MatchedBy(func(p model.MenuItemPatch) bool {
				return *p.Name == "Double Trouble" && len(*p.Ingredients) == 2 && (*p.Ingredients)[1] == "script"
			})).Return(tt.repoErr)

			err := svc.UpdateMenuItem(ctx, "m1", model.MenuItemPatch{Name: &name, Ingredients: &ingredients})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantNotify, len(notifier.calls()) == 1)
			repos.menuItems.AssertExpectations(t)
		})
	}
}

func TestCatalogService_DeleteCustomization_WrapsBackendErrors(t *testing.T) {
	ctx := context.Background()
	repos := newMockStore()
	svc := NewCatalogService(repos.store(), nil, zerolog.Nop())

	backendErr := errors.New("timeout")
	repos.customizations.On("Delete", ctx, "c1").Return(backendErr)

	err := svc.DeleteCustomization(ctx, "c1")

	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "failed to delete")
}

func TestCatalogService_CreateCustomization_RejectsUnknownKind(t *testing.T) {
	repos := newMockStore()
	svc := NewCatalogService(repos.store(), nil, zerolog.Nop())

	_, err := svc.CreateCustomization(context.Background(), model.CustomizationOption{Name: "Gold leaf", Kind: "sprinkle", Price: 5})

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "kind", verrs[0].Field)
}
