package subjectRoutes

import (
	subjectController "courseplatform/controllers/subject"
	"courseplatform/middleware"
	"courseplatform/policy"
	subjectValidator "courseplatform/validators/subject"

	"github.com/gofiber/fiber/v2"
)

func SetupSubjectRoutes(app *fiber.App) {
	subjectGroup := app.Group("/subjects", middleware.OptionalJWTMiddleware)
	adminOrReadOnly := middleware.CheckAccess(policy.AdminOrReadOnly, subjectController.NoCourse)

	subjectGroup.Get("/", adminOrReadOnly, subjectController.ListSubjects)
	subjectGroup.Post("/", adminOrReadOnly, subjectValidator.Subject(), subjectController.CreateSubject)
	subjectGroup.Get("/:slug", adminOrReadOnly, subjectController.GetSubject)
	subjectGroup.Put("/:slug", adminOrReadOnly, subjectValidator.Subject(), subjectController.UpdateSubject)
	subjectGroup.Delete("/:slug", adminOrReadOnly, subjectController.DeleteSubject)
}
