package controllers

import (
	"courseplatform/database"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	courseValidator "courseplatform/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListModules lists the modules of the course in order.
func ListModules(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)

	var modules []course.Module
	err := database.Database.Db.
		Where("course_id = ?", found.ID).
		Scopes(course.BySiblingOrder).
		Find(&modules).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

// CreateModule appends a module to the course. Without an explicit order it
// goes after the last module.
func CreateModule(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := course.Module{
		CourseID: found.ID,
		Title:    *reqData.Title,
		Order:    reqData.Order,
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&module).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// GetModule returns the module with its items in order.
func GetModule(c *fiber.Ctx) error {
	module := middleware.Resource(c).(*course.Module)

	err := database.Database.Db.
		Where("module_id = ?", module.ID).
		Scopes(course.BySiblingOrder).
		Find(&module.Items).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully!", module)
}

// UpdateModule changes the sent fields of the module.
func UpdateModule(c *fiber.Ctx) error {
	module := middleware.Resource(c).(*course.Module)
	reqData, ok := c.Locals("validatedModuleUpdate").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		module.Title = *reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	if reqData.Order != nil {
		module.Order = reqData.Order
	}

	if err := database.Database.Db.Omit("Items").Save(module).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule removes the module with its items and their entries.
func DeleteModule(c *fiber.Ctx) error {
	module := middleware.Resource(c).(*course.Module)

	var refs []string
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		refs, err = assetRefs(tx, "item_id IN (?)", tx.Model(&course.Item{}).Select("id").Where("module_id = ?", module.ID))
		if err != nil {
			return err
		}
		return tx.Delete(module).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	removeAssets(refs...)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
