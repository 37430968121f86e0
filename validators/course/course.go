package courseValidator

import (
	"strings"
	"time"

	"courseplatform/middleware"

	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title        *string    `json:"title"`
	Overview     *string    `json:"overview"`
	SubjectID    *uint      `json:"subject_id"`
	Price        *uint      `json:"price"`
	OpenDate     *time.Time `json:"open_date"`
	IsEnrollOpen *bool      `json:"is_enroll_open"`
	Visible      *bool      `json:"visible"`
}

type TeacherRequest struct {
	UserID uint `json:"user_id"`
}

func validateCourse(reqData *CourseRequest, creating bool) map[string]string {
	errors := make(map[string]string)

	if reqData.Title != nil {
		title := strings.TrimSpace(*reqData.Title)
		reqData.Title = &title
	}
	switch {
	case reqData.Title == nil || *reqData.Title == "":
		if creating || reqData.Title != nil {
			errors["title"] = "Title is required!"
		}
	case len(*reqData.Title) > 200:
		errors["title"] = "Title must be at most 200 characters long!"
	}

	if creating && (reqData.Overview == nil || strings.TrimSpace(*reqData.Overview) == "") {
		errors["overview"] = "Overview is required!"
	}

	if reqData.SubjectID != nil && *reqData.SubjectID == 0 {
		errors["subject_id"] = "Subject must be a valid id!"
	}

	return errors
}

// CreateCourse validates a new course.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateCourse(reqData, true); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates a course update. Only the sent fields change.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateCourse(reqData, false); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// AddTeacher validates the user added as a teacher.
func AddTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TeacherRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.UserID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"user_id": "User is required!"})
		}

		c.Locals("validatedTeacher", reqData)
		return c.Next()
	}
}
