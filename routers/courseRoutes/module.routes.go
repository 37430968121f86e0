package courseRoutes

import (
	controllers "courseplatform/controllers/course"
	"courseplatform/middleware"
	"courseplatform/policy"
	courseValidator "courseplatform/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupModuleRoutes(app *fiber.App) {
	moduleGroup := app.Group("/modules")

	membersRead := middleware.CheckAccess(policy.StudentOrTeacherReadOwnerOrStaffWrite, controllers.LoadModule)
	ownerOnly := middleware.CheckAccess(policy.OwnerOrStaff, controllers.LoadModule)

	moduleGroup.Get("/:id", middleware.OptionalJWTMiddleware, membersRead, controllers.GetModule)
	moduleGroup.Patch("/:id", middleware.JWTMiddleware, membersRead, courseValidator.UpdateModule(), controllers.UpdateModule)
	moduleGroup.Delete("/:id", middleware.JWTMiddleware, membersRead, controllers.DeleteModule)

	moduleGroup.Get("/:id/items", middleware.JWTMiddleware, ownerOnly, controllers.ListItems)
	moduleGroup.Post("/:id/items", middleware.JWTMiddleware, ownerOnly, courseValidator.Item(), controllers.CreateItem)
}

func SetupItemRoutes(app *fiber.App) {
	itemGroup := app.Group("/items")

	ownerOnly := middleware.CheckAccess(policy.OwnerOrStaff, controllers.LoadItem)

	itemGroup.Get("/:id", middleware.JWTMiddleware, ownerOnly, controllers.GetItem)
	itemGroup.Put("/:id", middleware.JWTMiddleware, ownerOnly, courseValidator.Item(), controllers.UpdateItem)
	itemGroup.Patch("/:id", middleware.JWTMiddleware, ownerOnly, courseValidator.Item(), controllers.UpdateItem)
	itemGroup.Delete("/:id", middleware.JWTMiddleware, ownerOnly, controllers.DeleteItem)
}
