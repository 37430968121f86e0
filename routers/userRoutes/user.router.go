package userProfileRoutes

import (
	courseControllers "courseplatform/controllers/course"
	userProfileController "courseplatform/controllers/userControllers"
	"courseplatform/middleware"
	authValidators "courseplatform/validators/auth"
	userProfileValidator "courseplatform/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)

	app.Get("/users/:id/courses", middleware.OptionalJWTMiddleware, authValidators.Pagination(), courseControllers.UserCourses)
}
