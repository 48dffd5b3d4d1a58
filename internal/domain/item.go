package domain

// Item is a stored record. ID is assigned by the storage layer.
type Item struct {
	ID   int64  `json:"item_id"`
	Name string `json:"item_name"`
	Desc string `json:"item_desc"`
}

type NewItem struct {
	Name string `json:"item_name"`
	Desc string `json:"item_desc"`
}
