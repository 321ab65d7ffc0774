package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser             = "user"
	RoleInventoryManager = "inventory_manager"
	RoleAdmin            = "admin"
)

// User represents an account holder
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	ZipCode      string    `json:"zipCode" db:"zip_code"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate holds the profile fields a user may change. Empty fields are
// left untouched.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	ZipCode string
}

// Apply copies the non-empty fields of p onto u
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	if p.City != "" {
		u.City = p.City
	}
	if p.State != "" {
		u.State = p.State
	}
	if p.ZipCode != "" {
		u.ZipCode = p.ZipCode
	}
}

// RefreshToken is a long-lived token exchanged for new access tokens
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}
