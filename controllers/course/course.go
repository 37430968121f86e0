package controllers

import (
	"errors"
	"fmt"
	"time"

	"courseplatform/apperr"
	"courseplatform/database"
	"courseplatform/logger"
	"courseplatform/middleware"
	"courseplatform/models"
	course "courseplatform/models/course"
	"courseplatform/utils"
	authValidator "courseplatform/validators/auth"
	courseValidator "courseplatform/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// courseView adds the role counts to a course.
func courseView(c *course.Course) fiber.Map {
	return fiber.Map{
		"course":         c,
		"students_count": len(c.Students),
		"teachers_count": len(c.Teachers),
	}
}

func listCourses(c *fiber.Ctx, scope func(*gorm.DB) *gorm.DB) error {
	r := middleware.CurrentRequester(c)
	page, ok := c.Locals("validatedPage").(*authValidator.PageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	offset := (*page.Page - 1) * (*page.Limit)

	db := database.Database.Db.Model(&course.Course{}).
		Scopes(course.VisibleTo(r.UserID, r.Staff), scope).
		Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var courses []course.Course
	if err := db.Preload("Subject").Order("created_at desc, id desc").Offset(offset).Limit(*page.Limit).Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  *page.Page,
			"limit": *page.Limit,
		},
	})
}

// ListCourses lists the courses visible to the requester.
func ListCourses(c *fiber.Ctx) error {
	return listCourses(c, func(db *gorm.DB) *gorm.DB { return db })
}

// UserCourses lists the courses owned by the :id user.
func UserCourses(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := database.Database.Db.Select("id").First(&models.User{}, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No such user!", nil)
	}
	return listCourses(c, func(db *gorm.DB) *gorm.DB { return db.Where("owner_id = ?", id) })
}

func checkSubject(subjectID *uint) error {
	if subjectID == nil {
		return nil
	}
	err := database.Database.Db.Select("id").First(&models.Subject{}, *subjectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Field("subject_id", "Subject does not exist!")
	}
	return err
}

// CreateCourse creates a course owned by the requester.
func CreateCourse(c *fiber.Ctx) error {
	r := middleware.CurrentRequester(c)
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if err := checkSubject(reqData.SubjectID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	newCourse := course.Course{
		OwnerID:   r.UserID,
		SubjectID: reqData.SubjectID,
		Title:     *reqData.Title,
		Overview:  *reqData.Overview,
		OpenDate:  time.Now(),
		Visible:   true,
	}
	if reqData.Price != nil {
		newCourse.Price = *reqData.Price
	}
	if reqData.OpenDate != nil {
		newCourse.OpenDate = *reqData.OpenDate
	}
	if reqData.IsEnrollOpen != nil {
		newCourse.IsEnrollOpen = *reqData.IsEnrollOpen
	}
	if reqData.Visible != nil {
		newCourse.Visible = *reqData.Visible
	}

	if err := database.Database.Db.Create(&newCourse).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	logger.Log.Info("Course created", "course", newCourse.ID, "owner", r.UserID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", newCourse)
}

// GetCourse returns the course with its modules in order.
func GetCourse(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)

	err := database.Database.Db.
		Where("course_id = ?", found.ID).
		Scopes(course.BySiblingOrder).
		Find(&found.Modules).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if found.SubjectID != nil {
		var subject models.Subject
		if err := database.Database.Db.First(&subject, *found.SubjectID).Error; err == nil {
			found.Subject = &subject
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", courseView(found))
}

// UpdateCourse changes the sent fields of the course.
func UpdateCourse(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)
	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if err := checkSubject(reqData.SubjectID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if reqData.Title != nil {
		found.Title = *reqData.Title
	}
	if reqData.Overview != nil {
		found.Overview = *reqData.Overview
	}
	if reqData.SubjectID != nil {
		found.SubjectID = reqData.SubjectID
	}
	if reqData.Price != nil {
		found.Price = *reqData.Price
	}
	if reqData.OpenDate != nil {
		found.OpenDate = *reqData.OpenDate
	}
	if reqData.IsEnrollOpen != nil {
		found.IsEnrollOpen = *reqData.IsEnrollOpen
	}
	if reqData.Visible != nil {
		found.Visible = *reqData.Visible
	}

	// Omit the role sets so Save does not rewrite the join tables
	if err := database.Database.Db.Omit("Students", "Teachers", "Subject", "Owner").Save(found).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", courseView(found))
}

// DeleteCourse soft deletes the course and everything below it.
func DeleteCourse(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)

	var refs []string
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		refs, err = assetRefs(tx, "item_id IN (?)", tx.Model(&course.Item{}).Select("items.id").
			Joins("JOIN modules ON modules.id = items.module_id").
			Where("modules.course_id = ?", found.ID))
		if err != nil {
			return err
		}
		return tx.Delete(found).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	removeAssets(refs...)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// Enroll adds the requester to the course students when enrollment is open.
func Enroll(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)
	r := middleware.CurrentRequester(c)

	if !found.IsEnrollOpen {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			fmt.Sprintf("Course %s not open for enroll.", found.Title), nil)
	}
	if found.HasStudent(r.UserID) {
		return middleware.JsonResponse(c, fiber.StatusOK, true,
			fmt.Sprintf("Already registered to %s.", found.Title), nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, r.UserID).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := database.Database.Db.Model(found).Association("Students").Append(&user); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	utils.SendEnrollmentEmail(user.Email, user.Name, found.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true,
		fmt.Sprintf("Successfully registered to %s.", found.Title), nil)
}

// AddTeacher adds an existing user to the course teachers.
func AddTeacher(c *fiber.Ctx) error {
	found := middleware.Resource(c).(*course.Course)
	reqData, ok := c.Locals("validatedTeacher").(*courseValidator.TeacherRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, reqData.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No such user!", nil)
	}
	if !found.HasTeacher(user.ID) {
		if err := database.Database.Db.Model(found).Association("Teachers").Append(&user); err != nil {
			return middleware.ErrorResponse(c, err)
		}
		utils.SendTeacherAddedEmail(user.Email, user.Name, found.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Teacher added successfully", nil)
}
