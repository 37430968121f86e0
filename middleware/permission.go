package middleware

import (
	"courseplatform/database"
	"courseplatform/logger"
	"courseplatform/policy"

	"github.com/gofiber/fiber/v2"
)

const resourceKey = "resource"

// Loader fetches the resource a route acts on.
type Loader func(c *fiber.Ctx) (policy.Resource, error)

// CheckAccess loads the route's resource and applies rule with the method
// class of the request. The loaded resource is kept for the handler, see
// Resource.
func CheckAccess(rule policy.Rule, load Loader) fiber.Handler {
	return checkAccess(rule, nil, load)
}

// CheckAccessAs is CheckAccess with a fixed method class, for routes whose
// HTTP method does not reflect what they do to the resource.
func CheckAccessAs(rule policy.Rule, method policy.Method, load Loader) fiber.Handler {
	return checkAccess(rule, &method, load)
}

func checkAccess(rule policy.Rule, fixed *policy.Method, load Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := load(c)
		if err != nil {
			return ErrorResponse(c, err)
		}

		method := policy.MethodClass(c.Method())
		if fixed != nil {
			method = *fixed
		}
		requester := CurrentRequester(c)

		allowed, err := policy.Check(database.Database.Db, rule, requester, method, res)
		if err != nil {
			return ErrorResponse(c, err)
		}
		if !allowed {
			logger.Log.Debug("access denied", "rule", rule.String(), "user", requester.UserID, "path", c.Path())
			if requester.IsAnonymous() {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
			}
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		c.Locals(resourceKey, res)
		return c.Next()
	}
}

// Resource returns the resource loaded by CheckAccess.
func Resource(c *fiber.Ctx) policy.Resource {
	res, _ := c.Locals(resourceKey).(policy.Resource)
	return res
}

// Load fetches the route's resource without an access decision, for handlers
// that decide themselves.
func Load(load Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := load(c)
		if err != nil {
			return ErrorResponse(c, err)
		}
		c.Locals(resourceKey, res)
		return c.Next()
	}
}
