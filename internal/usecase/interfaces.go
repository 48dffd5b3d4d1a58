package usecase

import (
	"context"

	"itemsapi/internal/domain"
)

type ItemRepository interface {
	List(ctx context.Context) ([]domain.Item, error)
	Insert(ctx context.Context, item domain.NewItem) (domain.Item, error)
}

type AdmissionPolicy interface {
	Evaluate(ctx context.Context, item domain.NewItem) (domain.PolicyResult, error)
}
