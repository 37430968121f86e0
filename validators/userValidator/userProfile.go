package userValidator

import (
	"strings"
	"time"

	"courseplatform/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProfileRequest struct {
	Name        *string `json:"name"`
	AboutMyself *string `json:"about_myself"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD, empty clears it

	BirthDate *time.Time `json:"-"`
}

// UpdateProfile validates a partial profile update.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if reqData.AboutMyself != nil && len(*reqData.AboutMyself) > 5000 {
			errors["about_myself"] = "About myself must be at most 5000 characters long!"
		}

		if reqData.DateOfBirth != nil && *reqData.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", *reqData.DateOfBirth)
			switch {
			case err != nil:
				errors["date_of_birth"] = "Date of birth must be formatted as YYYY-MM-DD!"
			case dob.After(time.Now()):
				errors["date_of_birth"] = "Date of birth cannot be in the future!"
			default:
				reqData.BirthDate = &dob
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
