package subjectValidator

import (
	"regexp"
	"strings"

	"courseplatform/middleware"

	"github.com/gofiber/fiber/v2"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type SubjectRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Subject validates a subject payload. An empty slug is derived from the title.
func Subject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubjectRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Slug = strings.TrimSpace(reqData.Slug)

		errors := make(map[string]string)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 200 {
			errors["title"] = "Title must be at most 200 characters long!"
		}

		if reqData.Slug != "" && !slugPattern.MatchString(reqData.Slug) {
			errors["slug"] = "Slug may only contain lowercase letters, digits and dashes!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubject", reqData)
		return c.Next()
	}
}
