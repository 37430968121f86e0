package superAdminRoutes

import (
	superAdminController "courseplatform/controllers/superAdmin"
	"courseplatform/middleware"
	authValidator "courseplatform/validators/auth"
	superAdminValidator "courseplatform/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.StaffOnly)

	adminGroup.Get("/users", authValidator.Pagination(), superAdminValidator.UserSearch(), superAdminController.UserList)
	adminGroup.Put("/users/:id/staff", superAdminValidator.UserID(), superAdminValidator.Staff(), superAdminController.SetStaff)
	adminGroup.Put("/users/:id/unblock", superAdminValidator.UserID(), superAdminController.Unblock)
}
