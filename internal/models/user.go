package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
	RoleKitchen Role = "kitchen"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin, RoleKitchen:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Role         Role       `json:"role" db:"role"`
	CanteenID    *uuid.UUID `json:"canteenId,omitempty" db:"canteen_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      Role
	CanteenID *uuid.UUID
}

func (u *User) Caller() *Caller {
	return &Caller{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CanteenID: u.CanteenID,
	}
}
