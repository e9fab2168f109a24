package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryBeverages Category = "Beverages"
	CategorySnacks    Category = "Snacks"
	CategoryMeals     Category = "Meals"
)

// Categories lists the menu categories in display order.
func Categories() []Category {
	return []Category{CategoryBeverages, CategorySnacks, CategoryMeals}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryBeverages, CategorySnacks, CategoryMeals:
		return true
	}
	return false
}

type MenuItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CanteenID   uuid.UUID `json:"canteenId" db:"canteen_id"`
	Name        string    `json:"name" db:"name"`
	Category    Category  `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"description" db:"description"`
	Image       string    `json:"image" db:"image"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// MenuItemUpdate carries a partial update; nil fields are left untouched.
type MenuItemUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Available   *bool     `json:"available,omitempty"`
}

// Apply copies the non-nil fields of u onto item.
func (u MenuItemUpdate) Apply(item *MenuItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Image != nil {
		item.Image = *u.Image
	}
	if u.Available != nil {
		item.Available = *u.Available
	}
}
