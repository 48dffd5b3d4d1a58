package db

import "itemsapi/internal/domain"

type ItemModel struct {
	ItemID   int64  `gorm:"column:item_id;primaryKey;autoIncrement"`
	ItemName string `gorm:"column:item_name;not null"`
	ItemDesc string `gorm:"column:item_desc;not null"`
}

func (ItemModel) TableName() string {
	return "items"
}

func (m ItemModel) toDomain() domain.Item {
	return domain.Item{
		ID:   m.ItemID,
		Name: m.ItemName,
		Desc: m.ItemDesc,
	}
}
