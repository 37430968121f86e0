package subjectController

import (
	"errors"
	"fmt"

	"courseplatform/apperr"
	"courseplatform/database"
	"courseplatform/middleware"
	"courseplatform/models"
	course "courseplatform/models/course"
	"courseplatform/policy"
	subjectValidator "courseplatform/validators/subject"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Subjects live outside any course.
func NoCourse(*fiber.Ctx) (policy.Resource, error) { return policy.Standalone{}, nil }

func loadSubject(slug string) (*models.Subject, error) {
	var subject models.Subject
	if err := database.Database.Db.Where("slug = ?", slug).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject %q: %w", slug, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &subject, nil
}

func slugTaken(slug string, exceptID uint) (bool, error) {
	var count int64
	err := database.Database.Db.Unscoped().Model(&models.Subject{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

func ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := database.Database.Db.Order("title asc").Find(&subjects).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subjects fetched successfully!", subjects)
}

// GetSubject returns the subject with the courses visible to the requester.
func GetSubject(c *fiber.Ctx) error {
	subject, err := loadSubject(c.Params("slug"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	r := middleware.CurrentRequester(c)
	var courses []course.Course
	err = database.Database.Db.
		Scopes(course.VisibleTo(r.UserID, r.Staff)).
		Where("subject_id = ?", subject.ID).
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject fetched successfully!", fiber.Map{
		"subject": subject,
		"courses": courses,
	})
}

func CreateSubject(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSubject").(*subjectValidator.SubjectRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	subject := models.Subject{Title: reqData.Title, Slug: reqData.Slug}
	if subject.Slug == "" {
		subject.Slug = course.Slugify(subject.Title)
	}

	taken, err := slugTaken(subject.Slug, 0)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if taken {
		return middleware.ErrorResponse(c, fmt.Errorf("subject %q: %w", subject.Slug, apperr.ErrDuplicateResource))
	}

	if err := database.Database.Db.Create(&subject).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subject created successfully!", subject)
}

func UpdateSubject(c *fiber.Ctx) error {
	subject, err := loadSubject(c.Params("slug"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedSubject").(*subjectValidator.SubjectRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	subject.Title = reqData.Title
	if reqData.Slug != "" && reqData.Slug != subject.Slug {
		taken, err := slugTaken(reqData.Slug, subject.ID)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		if taken {
			return middleware.ErrorResponse(c, fmt.Errorf("subject %q: %w", reqData.Slug, apperr.ErrDuplicateResource))
		}
		subject.Slug = reqData.Slug
	}

	if err := database.Database.Db.Save(subject).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject updated successfully!", subject)
}

// DeleteSubject removes the subject and untags its courses.
func DeleteSubject(c *fiber.Ctx) error {
	subject, err := loadSubject(c.Params("slug"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&course.Course{}).Where("subject_id = ?", subject.ID).UpdateColumn("subject_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(subject).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject deleted successfully!", nil)
}
