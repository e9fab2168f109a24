package models

import (
	"github.com/google/uuid"
)

// OrderLine is one cart entry with the name and price captured when the
// order was placed. MenuItem is attached on read when the item still exists.
type OrderLine struct {
	MenuItemID uuid.UUID `json:"menuItemId" db:"menu_item_id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
	MenuItem   *MenuItem `json:"menuItem,omitempty" db:"-"`
}
