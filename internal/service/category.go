package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/model"
)

// CreateCategoryInput defines input for creating a category.
type CreateCategoryInput struct {
	Name string
}

// CreateCategory creates a user-defined category. A taken name yields
// model.ErrConflict.
func (s *LedgerService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	name, err := model.NormalizeName("name", input.Name)
	if err != nil {
		return nil, s.recordFailure(model.EntityCategory, opCreate, err)
	}

	now := s.now()
	c := &model.Category{
		ID:        newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, s.recordFailure(model.EntityCategory, opCreate, fmt.Errorf("failed to create category: %w", err))
	}

	s.afterWrite(ctx, model.EntityCategory, opCreate, events.New(events.CategoryCreated, c.ID))
	return c, nil
}

// ListCategories returns all categories in creation order, seeding the
// defaults first when none exist.
func (s *LedgerService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	if _, err := s.SeedDefaultCategories(ctx); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx)
}

// SeedDefaultCategories inserts the default categories when the store has
// none and returns how many were inserted.
func (s *LedgerService) SeedDefaultCategories(ctx context.Context) (int, error) {
	inserted, err := s.store.EnsureDefaultCategories(ctx, model.DefaultCategories(s.now(), newID))
	if err != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", err)
	}
	if inserted > 0 {
		slog.Info("default_categories_seeded", "count", inserted)
	}
	return inserted, nil
}
