package ledger

import (
	"context"
	"strings"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/validation"
)

// Categories returns the default categories of kind followed by the user's
// custom ones.
func (s *Service) Categories(ctx context.Context, kind models.CategoryKind) ([]string, error) {
	custom, err := s.categories.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return append(models.DefaultCategories(kind), custom...), nil
}

// CustomCategories returns only the user-defined categories of kind.
func (s *Service) CustomCategories(ctx context.Context, kind models.CategoryKind) ([]string, error) {
	return s.categories.List(ctx, kind)
}

// AddCustomCategory stores a new category name for kind. Names that
// collide with a default (ignoring case) or an existing custom category
// are rejected.
func (s *Service) AddCustomCategory(ctx context.Context, kind models.CategoryKind, name string) error {
	name = strings.TrimSpace(name)
	if err := validation.CategoryName(name); err != nil {
		return err
	}
	if models.IsDefaultCategory(kind, name) {
		return &apperror.ValidationError{Field: "name", Reason: "is already a default category"}
	}

	custom, err := s.categories.List(ctx, kind)
	if err != nil {
		return err
	}
	for _, existing := range custom {
		if strings.EqualFold(existing, name) {
			return &apperror.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	if err := s.categories.ReplaceAll(ctx, kind, append(custom, name)); err != nil {
		return err
	}
	s.logger.Info("Added custom category",
		logging.F(logging.FieldCategory, name),
		logging.F(logging.FieldCategoryKind, string(kind)))
	return nil
}

// DeleteCustomCategory removes a custom category. Default categories
// cannot be deleted. Transactions and budgets using the name are left as
// they are.
func (s *Service) DeleteCustomCategory(ctx context.Context, kind models.CategoryKind, name string) error {
	name = strings.TrimSpace(name)
	if models.IsDefaultCategory(kind, name) {
		return &apperror.ValidationError{Field: "name", Reason: "default categories cannot be deleted"}
	}

	custom, err := s.categories.List(ctx, kind)
	if err != nil {
		return err
	}
	for i, existing := range custom {
		if existing == name {
			custom = append(custom[:i], custom[i+1:]...)
			if err := s.categories.ReplaceAll(ctx, kind, custom); err != nil {
				return err
			}
			s.logger.Info("Deleted custom category", logging.F(logging.FieldCategory, name))
			return nil
		}
	}
	return &apperror.NotFoundError{Entity: "category", ID: name}
}
