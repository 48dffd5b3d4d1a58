package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"itemsapi/internal/domain"
)

type ItemService struct {
	Items  ItemRepository
	Policy AdmissionPolicy
}

func NewItemService(items ItemRepository, policy AdmissionPolicy) *ItemService {
	return &ItemService{
		Items:  items,
		Policy: policy,
	}
}

// List returns every stored item; an empty table yields an empty, non-nil slice.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	if s == nil || s.Items == nil {
		return nil, errors.New("item repository is required")
	}
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", domain.ErrStorage, err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// Create validates item and inserts it. Duplicate names are allowed.
func (s *ItemService) Create(ctx context.Context, item domain.NewItem) (domain.Item, error) {
	if s == nil || s.Items == nil {
		return domain.Item{}, errors.New("item repository is required")
	}
	if err := validateNewItem(item); err != nil {
		return domain.Item{}, err
	}
	if s.Policy != nil {
		result, err := s.Policy.Evaluate(ctx, item)
		if err != nil {
			return domain.Item{}, fmt.Errorf("evaluate item policy: %w", err)
		}
		if !result.Allow {
			return domain.Item{}, &domain.ValidationError{Reasons: result.Deny}
		}
	}
	created, err := s.Items.Insert(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("%w: insert item: %v", domain.ErrStorage, err)
	}
	return created, nil
}

func validateNewItem(item domain.NewItem) error {
	var reasons []domain.PolicyDeny
	reasons = appendFieldReasons(reasons, "new_item_name", "NAME", item.Name)
	reasons = appendFieldReasons(reasons, "new_item_desc", "DESC", item.Desc)
	if len(reasons) > 0 {
		return &domain.ValidationError{Reasons: reasons}
	}
	return nil
}

// Postgres TEXT rejects NUL bytes and invalid UTF-8, so both are client errors.
func appendFieldReasons(reasons []domain.PolicyDeny, field, code, value string) []domain.PolicyDeny {
	switch {
	case strings.TrimSpace(value) == "":
		return append(reasons, domain.PolicyDeny{Code: code + "_REQUIRED", Message: field + " must not be empty"})
	case !utf8.ValidString(value):
		return append(reasons, domain.PolicyDeny{Code: code + "_INVALID_UTF8", Message: field + " must be valid UTF-8"})
	case strings.ContainsRune(value, 0):
		return append(reasons, domain.PolicyDeny{Code: code + "_CONTAINS_NUL", Message: field + " must not contain NUL characters"})
	}
	return reasons
}
