package db

import (
	"context"

	"itemsapi/internal/domain"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// List reads the whole table in whatever order Postgres returns it.
func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ItemModel
	if err := r.db.WithContext(ctx).Raw("SELECT * FROM items").Scan(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(models))
	for _, m := range models {
		items = append(items, m.toDomain())
	}
	return items, nil
}

// Insert stores one row and returns it with the generated item_id.
func (r *ItemRepository) Insert(ctx context.Context, item domain.NewItem) (domain.Item, error) {
	if r.db == nil {
		return domain.Item{}, errDBUnavailable
	}
	model := ItemModel{
		ItemName: item.Name,
		ItemDesc: item.Desc,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Item{}, err
	}
	return model.toDomain(), nil
}
