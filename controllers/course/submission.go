package controllers

import (
	"encoding/json"
	"fmt"

	"courseplatform/apperr"
	"courseplatform/database"
	"courseplatform/grading"
	"courseplatform/logger"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	"courseplatform/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func submissionTarget(c *fiber.Ctx, a *course.Assignment) (policy.Target, error) {
	t, err := policy.Resolve(database.Database.Db, a)
	if err != nil {
		return t, err
	}
	if !policy.CanSubmit(middleware.CurrentRequester(c), t, a.PaidOnly) {
		return t, fmt.Errorf("assignment %d: %w", a.ID, apperr.ErrPermissionDenied)
	}
	return t, nil
}

// Submit grades an answer and stores it as the requester's next attempt.
func Submit(c *fiber.Ctx) error {
	a := middleware.Resource(c).(*course.Assignment)
	r := middleware.CurrentRequester(c)
	ans, ok := c.Locals("validatedAnswer").(*grading.Answer)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if _, err := submissionTarget(c, a); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	score, err := grading.Grade(a, *ans)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	raw, err := json.Marshal(ans)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var submission course.Submission
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		// Concurrent submits by the same user must not both pass the limit.
		if err := course.LockForUpdate(tx, &course.Assignment{}, a.ID); err != nil {
			return err
		}
		attempts, err := course.CountAttempts(tx, a.ID, r.UserID)
		if err != nil {
			return err
		}
		if a.MaxAttempts > 0 && attempts >= int64(a.MaxAttempts) {
			return fmt.Errorf("all %d attempts used: %w", a.MaxAttempts, apperr.ErrPermissionDenied)
		}
		submission = course.Submission{
			AssignmentID:  a.ID,
			UserID:        r.UserID,
			Answer:        datatypes.JSON(raw),
			Score:         score,
			MaxScore:      a.MaxScore,
			AttemptNumber: int(attempts) + 1,
		}
		return tx.Create(&submission).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Submission graded", "assignment", a.ID, "user", r.UserID, "score", score, "attempt", submission.AttemptNumber)

	var attemptsLeft interface{}
	if a.MaxAttempts > 0 {
		attemptsLeft = a.MaxAttempts - submission.AttemptNumber
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Answer submitted successfully!", fiber.Map{
		"submission":    submission,
		"attempts_left": attemptsLeft,
	})
}

// ListSubmissions lists the requester's attempts. The owner and staff see
// every attempt at the assignment.
func ListSubmissions(c *fiber.Ctx) error {
	a := middleware.Resource(c).(*course.Assignment)
	r := middleware.CurrentRequester(c)
	t, err := submissionTarget(c, a)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	db := database.Database.Db.Where("assignment_id = ?", a.ID)
	if !r.Staff && t.OwnerID != r.UserID {
		db = db.Where("user_id = ?", r.UserID)
	}

	var submissions []course.Submission
	if err := db.Order("user_id asc, attempt_number asc").Find(&submissions).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", submissions)
}
