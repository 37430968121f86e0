package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission is one graded attempt at an assignment
type Submission struct {
	gorm.Model
	AssignmentID  uint           `json:"assignment_id" gorm:"index;not null"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Answer        datatypes.JSON `json:"answer"`
	Score         int            `json:"score"`
	MaxScore      int            `json:"max_score"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
}

// CountAttempts returns how many submissions userID made for the assignment.
func CountAttempts(tx *gorm.DB, assignmentID, userID uint) (int64, error) {
	var n int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Submission{}).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		Count(&n).Error
	return n, err
}
