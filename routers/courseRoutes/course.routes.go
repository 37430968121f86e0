package courseRoutes

import (
	controllers "courseplatform/controllers/course"
	"courseplatform/middleware"
	"courseplatform/policy"
	authValidator "courseplatform/validators/auth"
	courseValidator "courseplatform/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	ownerOrReadOnly := middleware.CheckAccess(policy.OwnerOrStaffOrReadOnly, controllers.LoadVisibleCourse)
	ownerOnly := middleware.CheckAccess(policy.OwnerOrStaff, controllers.LoadCourse)

	courseGroup.Get("/", middleware.OptionalJWTMiddleware, authValidator.Pagination(), controllers.ListCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, courseValidator.CreateCourse(), controllers.CreateCourse)

	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, ownerOrReadOnly, controllers.GetCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, ownerOrReadOnly, courseValidator.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Patch("/:id", middleware.JWTMiddleware, ownerOrReadOnly, courseValidator.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, ownerOrReadOnly, controllers.DeleteCourse)

	courseGroup.Get("/:id/modules", middleware.JWTMiddleware, ownerOnly, controllers.ListModules)
	courseGroup.Post("/:id/modules", middleware.JWTMiddleware, ownerOnly, courseValidator.CreateModule(), controllers.CreateModule)
	courseGroup.Post("/:id/teachers", middleware.JWTMiddleware, ownerOnly, courseValidator.AddTeacher(), controllers.AddTeacher)

	// Enrolling only needs to see the course
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware,
		middleware.CheckAccessAs(policy.OwnerOrStaffOrReadOnly, policy.Read, controllers.LoadVisibleCourse),
		controllers.Enroll)
}
