package courseValidator

import (
	"strings"

	"courseplatform/middleware"

	"github.com/gofiber/fiber/v2"
)

type ModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

type ItemRequest struct {
	Order *int `json:"order"`
}

func validateOrder(order *int, errors map[string]string) {
	if order != nil && *order < 0 {
		errors["order"] = "Order must be at least 0!"
	}
}

func moduleHandler(creating bool, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

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
		validateOrder(reqData.Order, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

// CreateModule validates a new module. Order is optional.
func CreateModule() fiber.Handler { return moduleHandler(true, "validatedModule") }

// UpdateModule validates a partial module update.
func UpdateModule() fiber.Handler { return moduleHandler(false, "validatedModuleUpdate") }

// Item validates an item payload. An empty body is a valid new item.
func Item() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ItemRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		errors := make(map[string]string)
		validateOrder(reqData.Order, errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedItem", reqData)
		return c.Next()
	}
}
