package service

import (
	"context"
	"fmt"
	"time"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	categories     repository.CategoryRepository
	menuItems      repository.MenuItemRepository
	customizations repository.CustomizationRepository
	notifier       Notifier
	now            func() time.Time
	logger         zerolog.Logger
}

// NewCatalogService creates a new catalog service. notifier may be nil.
func NewCatalogService(store *repository.Store, notifier Notifier, logger zerolog.Logger) CatalogService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &catalogService{
		categories:     store.Categories,
		menuItems:      store.MenuItems,
		customizations: store.Customizations,
		notifier:       notifier,
		now:            time.Now,
		logger:         logger.With().Str("service", "catalog").Logger(),
	}
}

// ListCategories retrieves every category.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, &model.FetchError{Collection: model.CollectionCategories, Err: err}
	}
	return categories, nil
}

// CreateCategory sanitizes, validates and stores a category.
func (s *catalogService) CreateCategory(ctx context.Context, category model.Category) (string, error) {
	category.Name = model.SanitizeText(category.Name)
	category.Description = model.SanitizeText(category.Description)
	if err := model.Validate(category); err != nil {
		return "", err
	}

	now := s.now()
	category.CreatedAt, category.UpdatedAt = now, now

	id, err := s.categories.Create(ctx, &category)
	if err != nil {
		s.logger.Error().Err(err).Str("name", category.Name).Msg("failed to create category")
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Str("category_id", id).Str("name", category.Name).Msg("category created")
	s.notifier.Changed(ctx, model.CollectionCategories)
	return id, nil
}

// UpdateCategory sanitizes and applies a partial update.
func (s *catalogService) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	sanitizePtr(patch.Name)
	sanitizePtr(patch.Description)
	if err := model.Validate(patch); err != nil {
		return err
	}

	if err := s.categories.Update(ctx, id, patch); err != nil {
		return s.writeFailed(err, "update", "category_id", id)
	}

	s.notifier.Changed(ctx, model.CollectionCategories)
	return nil
}

// DeleteCategory removes a category.
func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return s.writeFailed(err, "delete", "category_id", id)
	}

	s.logger.Info().Str("category_id", id).Msg("category deleted")
	s.notifier.Changed(ctx, model.CollectionCategories)
	return nil
}

// ListMenuItems retrieves every burger.
func (s *catalogService) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuItems.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get menu items")
		return nil, &model.FetchError{Collection: model.CollectionMenuItems, Err: err}
	}
	return items, nil
}

// CreateMenuItem sanitizes, validates and stores a burger.
func (s *catalogService) CreateMenuItem(ctx context.Context, item model.MenuItem) (string, error) {
	item.Name = model.SanitizeText(item.Name)
	item.Ingredients = model.SanitizeList(item.Ingredients)
	item.CategoryID = model.SanitizeText(item.CategoryID)
	if err := model.Validate(item); err != nil {
		return "", err
	}

	now := s.now()
	item.CreatedAt, item.UpdatedAt = now, now

	id, err := s.menuItems.Create(ctx, &item)
	if err != nil {
		s.logger.Error().Err(err).Str("name", item.Name).Msg("failed to create menu item")
		return "", fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().
		Str("menu_item_id", id).
		Str("name", item.Name).
		Float64("price", item.Price).
		Msg("menu item created")
	s.notifier.Changed(ctx, model.CollectionMenuItems)
	return id, nil
}

// UpdateMenuItem sanitizes and applies a partial update.
func (s *catalogService) UpdateMenuItem(ctx context.Context, id string, patch model.MenuItemPatch) error {
	sanitizePtr(patch.Name)
	sanitizePtr(patch.CategoryID)
	if patch.Ingredients != nil {
		clean := model.SanitizeList(*patch.Ingredients)
		patch.Ingredients = &clean
	}
	if err := model.Validate(patch); err != nil {
		return err
	}

	if err := s.menuItems.Update(ctx, id, patch); err != nil {
		return s.writeFailed(err, "update", "menu_item_id", id)
	}

	s.notifier.Changed(ctx, model.CollectionMenuItems)
	return nil
}

// DeleteMenuItem removes a burger.
func (s *catalogService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.menuItems.Delete(ctx, id); err != nil {
		return s.writeFailed(err, "delete", "menu_item_id", id)
	}

	s.logger.Info().Str("menu_item_id", id).Msg("menu item deleted")
	s.notifier.Changed(ctx, model.CollectionMenuItems)
	return nil
}

// ListCustomizations retrieves every customization option.
func (s *catalogService) ListCustomizations(ctx context.Context) ([]model.CustomizationOption, error) {
	options, err := s.customizations.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get customizations")
		return nil, &model.FetchError{Collection: model.CollectionCustomizations, Err: err}
	}
	return options, nil
}

// CreateCustomization sanitizes, validates and stores an option.
func (s *catalogService) CreateCustomization(ctx context.Context, option model.CustomizationOption) (string, error) {
	option.Name = model.SanitizeText(option.Name)
	option.CategoryID = model.SanitizeText(option.CategoryID)
	if err := model.Validate(option); err != nil {
		return "", err
	}

	now := s.now()
	option.CreatedAt, option.UpdatedAt = now, now

	id, err := s.customizations.Create(ctx, &option)
	if err != nil {
		s.logger.Error().Err(err).Str("name", option.Name).Msg("failed to create customization")
		return "", fmt.Errorf("failed to create customization: %w", err)
	}

	s.logger.Info().
		Str("customization_id", id).
		Str("name", option.Name).
		Str("kind", string(option.Kind)).
		Msg("customization created")
	s.notifier.Changed(ctx, model.CollectionCustomizations)
	return id, nil
}

// UpdateCustomization sanitizes and applies a partial update.
func (s *catalogService) UpdateCustomization(ctx context.Context, id string, patch model.CustomizationPatch) error {
	sanitizePtr(patch.Name)
	sanitizePtr(patch.CategoryID)
	if err := model.Validate(patch); err != nil {
		return err
	}

	if err := s.customizations.Update(ctx, id, patch); err != nil {
		return s.writeFailed(err, "update", "customization_id", id)
	}

	s.notifier.Changed(ctx, model.CollectionCustomizations)
	return nil
}

// DeleteCustomization removes an option.
func (s *catalogService) DeleteCustomization(ctx context.Context, id string) error {
	if err := s.customizations.Delete(ctx, id); err != nil {
		return s.writeFailed(err, "delete", "customization_id", id)
	}

	s.logger.Info().Str("customization_id", id).Msg("customization deleted")
	s.notifier.Changed(ctx, model.CollectionCustomizations)
	return nil
}

// writeFailed passes domain errors through and wraps everything else.
func (s *catalogService) writeFailed(err error, op, idField, id string) error {
	if isDomainError(err) {
		s.logger.Debug().Err(err).Str(idField, id).Msgf("%s rejected", op)
		return err
	}
	s.logger.Error().Err(err).Str(idField, id).Msgf("failed to %s", op)
	return fmt.Errorf("failed to %s: %w", op, err)
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = model.SanitizeText(*s)
	}
}
