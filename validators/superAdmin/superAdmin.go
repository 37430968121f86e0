package superAdminValidator

import (
	"strconv"
	"strings"

	"courseplatform/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserSearchRequest struct {
	Search string `query:"search"`
}

type StaffRequest struct {
	IsStaff *bool `json:"is_staff"`
}

// UserSearch reads the optional search term of the user list.
func UserSearch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserSearchRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Search = strings.TrimSpace(reqData.Search)

		if len(reqData.Search) > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"search": "Search must be at most 100 characters long!",
			})
		}

		c.Locals("validatedUserSearch", reqData)
		return c.Next()
	}
}

// UserID validates the :id route parameter.
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || userID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "User ID must be a positive number!",
			})
		}

		c.Locals("validatedUserId", uint(userID))
		return c.Next()
	}
}

func Staff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StaffRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsStaff == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"is_staff": "Is staff is required!",
			})
		}

		c.Locals("validatedStaff", reqData)
		return c.Next()
	}
}
