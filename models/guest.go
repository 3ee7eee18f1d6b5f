package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Guest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	FirstName      string     `gorm:"size:150" json:"first_name"`
	LastName       string     `gorm:"size:150" json:"last_name"`
	Email          string     `gorm:"size:150;index" json:"email"`
	Phone          string     `gorm:"size:50" json:"phone"`
	IdentityNumber string     `gorm:"column:identity_number;uniqueIndex;size:100" json:"identity_number"`
	Gender         Gender     `gorm:"size:10" json:"gender"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Nationality    string     `gorm:"size:100" json:"nationality"`
	Address        *string    `gorm:"type:text" json:"address"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
