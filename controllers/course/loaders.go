package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"courseplatform/apperr"
	"courseplatform/database"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	"courseplatform/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s %q: %w", name, c.Params(name), apperr.ErrNotFound)
	}
	return uint(id), nil
}

// LoadVisibleCourse loads the :id course through the visibility filter, so
// hidden courses are not found by anyone but their owner and staff.
func LoadVisibleCourse(c *fiber.Ctx) (policy.Resource, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	r := middleware.CurrentRequester(c)

	var found course.Course
	err = database.Database.Db.
		Scopes(course.VisibleTo(r.UserID, r.Staff)).
		Select("id").
		First(&found, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("course %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return course.LoadCourse(database.Database.Db, id)
}

// LoadCourse loads the :id course regardless of visibility.
func LoadCourse(c *fiber.Ctx) (policy.Resource, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return course.LoadCourse(database.Database.Db, id)
}

func LoadModule(c *fiber.Ctx) (policy.Resource, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return course.LoadModule(database.Database.Db, id)
}

func LoadItem(c *fiber.Ctx) (policy.Resource, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return course.LoadItem(database.Database.Db, id)
}

// LoadEntry loads the :id row of the :kind variant from the table of its family.
func LoadEntry(c *fiber.Ctx) (policy.Resource, error) {
	d, err := course.Resolve(c.Params("kind"))
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	if d.Family == course.FamilyAssignment {
		return course.LoadAssignment(database.Database.Db, d.Kind, id)
	}
	return course.LoadContent(database.Database.Db, d.Kind, id)
}

// LoadAssignment is LoadEntry restricted to gradeable variants.
func LoadAssignment(c *fiber.Ctx) (policy.Resource, error) {
	d, err := course.Resolve(c.Params("kind"))
	if err != nil {
		return nil, err
	}
	if d.Family != course.FamilyAssignment {
		return nil, fmt.Errorf("%s does not accept submissions: %w", d.Kind, apperr.ErrUnknownContentType)
	}
	return LoadEntry(c)
}
