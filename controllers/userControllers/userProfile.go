package userController

import (
	"errors"

	"courseplatform/database"
	"courseplatform/middleware"
	"courseplatform/models"
	userValidator "courseplatform/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadProfile returns the requester's profile, creating an empty one for
// accounts that predate profiles.
func loadProfile(tx *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := tx.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: userID}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		err = tx.Preload("User").First(&profile, profile.ID).Error
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func profileView(p *models.Profile) fiber.Map {
	return fiber.Map{
		"user":          p.User,
		"about_myself":  p.AboutMyself,
		"date_of_birth": p.DateOfBirth,
	}
}

func GetProfile(c *fiber.Ctx) error {
	r := middleware.CurrentRequester(c)

	profile, err := loadProfile(database.Database.Db, r.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", profileView(profile))
}

func UpdateProfile(c *fiber.Ctx) error {
	r := middleware.CurrentRequester(c)
	reqData, ok := c.Locals("validatedProfile").(*userValidator.ProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var profile *models.Profile
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = loadProfile(tx, r.UserID)
		if err != nil {
			return err
		}

		if reqData.Name != nil {
			profile.User.Name = *reqData.Name
			if err := tx.Model(&profile.User).Update("name", *reqData.Name).Error; err != nil {
				return err
			}
		}
		if reqData.AboutMyself != nil {
			profile.AboutMyself = *reqData.AboutMyself
		}
		if reqData.DateOfBirth != nil {
			profile.DateOfBirth = reqData.BirthDate
		}
		return tx.Omit("User").Save(profile).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", profileView(profile))
}
