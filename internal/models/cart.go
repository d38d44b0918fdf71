package models

// CartItem is a product snapshot held in a session cart. Quantity is always
// one per entry; adding the same product twice yields two entries.
type CartItem struct {
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon,omitempty"`
	InventoryID string  `json:"inventoryId,omitempty"`
}
