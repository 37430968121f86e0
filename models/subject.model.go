package models

import "gorm.io/gorm"

// Subject tags courses with a topic.
type Subject struct {
	gorm.Model
	Title string `json:"title" gorm:"size:200;not null"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}
