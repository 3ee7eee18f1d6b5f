package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:150" json:"email"`
	PasswordHash string   `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	FullName     string   `gorm:"size:255" json:"full_name"`
	Role         UserRole `gorm:"size:20" json:"role"`
	Phone        *string  `gorm:"size:50" json:"phone"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
