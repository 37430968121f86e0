package courseRoutes

import (
	controllers "courseplatform/controllers/course"
	"courseplatform/middleware"
	"courseplatform/policy"
	contentValidator "courseplatform/validators/content"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(app *fiber.App) {
	app.Post("/items/:id/contents/:kind", middleware.JWTMiddleware,
		middleware.CheckAccess(policy.OwnerOrStaff, controllers.LoadItem),
		contentValidator.CreateContent(), controllers.CreateContent)

	contentGroup := app.Group("/contents")

	membersRead := middleware.CheckAccess(policy.StudentOrTeacherReadOwnerOrStaffWrite, controllers.LoadEntry)

	contentGroup.Get("/:kind/:id", middleware.OptionalJWTMiddleware, membersRead, controllers.GetContent)
	contentGroup.Put("/:kind/:id", middleware.JWTMiddleware, membersRead, contentValidator.UpdateContent(), controllers.UpdateContent)
	contentGroup.Patch("/:kind/:id", middleware.JWTMiddleware, membersRead, contentValidator.UpdateContent(), controllers.UpdateContent)
	contentGroup.Delete("/:kind/:id", middleware.JWTMiddleware, membersRead, controllers.DeleteContent)

	// Who may submit is decided by the handlers
	contentGroup.Post("/:kind/:id/submit", middleware.JWTMiddleware, middleware.Load(controllers.LoadAssignment),
		contentValidator.Submission(), controllers.Submit)
	contentGroup.Get("/:kind/:id/submissions", middleware.JWTMiddleware, middleware.Load(controllers.LoadAssignment),
		controllers.ListSubmissions)
}
