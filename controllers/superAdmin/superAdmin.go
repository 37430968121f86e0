package superAdminController

import (
	"errors"
	"fmt"

	"courseplatform/apperr"
	"courseplatform/database"
	"courseplatform/logger"
	"courseplatform/middleware"
	"courseplatform/models"
	authValidator "courseplatform/validators/auth"
	superAdminValidator "courseplatform/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func loadUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("validatedUserId").(uint)
	if !ok {
		return nil, fmt.Errorf("user id: %w", apperr.ErrNotFound)
	}
	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// UserList pages through every account, optionally filtered by name or email.
func UserList(c *fiber.Ctx) error {
	page, ok := c.Locals("validatedPage").(*authValidator.PageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	search, ok := c.Locals("validatedUserSearch").(*superAdminValidator.UserSearchRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*page.Page - 1) * (*page.Limit)

	db := database.Database.Db.Model(&models.User{})
	if search.Search != "" {
		like := "%" + search.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	db = db.Session(&gorm.Session{})

	var users []models.User
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := db.Order("id asc").Offset(offset).Limit(*page.Limit).Find(&users).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  *page.Page,
			"limit": *page.Limit,
		},
	})
}

// SetStaff grants or revokes the staff flag. Staff cannot revoke their own.
func SetStaff(c *fiber.Ctx) error {
	requester := middleware.CurrentRequester(c)
	reqData, ok := c.Locals("validatedStaff").(*superAdminValidator.StaffRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := loadUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if user.ID == requester.UserID && !*reqData.IsStaff {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot revoke your own staff access!", nil)
	}

	if err := database.Database.Db.Model(user).Update("is_staff", *reqData.IsStaff).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	user.IsStaff = *reqData.IsStaff

	logger.Log.Info("Staff flag changed", "user", user.ID, "staff", user.IsStaff, "by", requester.UserID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

// Unblock lifts a login block and resets the failed attempt counter.
func Unblock(c *fiber.Ctx) error {
	user, err := loadUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	err = database.Database.Db.Model(user).Updates(map[string]interface{}{
		"is_blocked":            false,
		"blocked_until":         nil,
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
	}).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unblocked successfully!", nil)
}
