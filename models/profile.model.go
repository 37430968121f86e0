package models

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	AboutMyself string     `json:"about_myself" gorm:"type:text;default:''"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	User        User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
