package utils

import (
	"time"

	"courseplatform/config"
	"courseplatform/database"
	"courseplatform/logger"
	course "courseplatform/models/course"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeEnrollmentScheduler opens enrollment for courses whose open date
// has come. It returns the started cron so callers can stop it.
func InitializeEnrollmentScheduler() (*cron.Cron, error) {
	spec := config.AppConfig.EnrollmentCronSpec
	logger.Log.Info("[ENROLLMENT-SCHEDULER] Initializing", "spec", spec)

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		opened, err := OpenDueEnrollments(database.Database.Db, time.Now())
		if err != nil {
			logger.Log.Error("[ENROLLMENT-SCHEDULER] run failed", "error", err)
			return
		}
		logger.Log.Info("[ENROLLMENT-SCHEDULER] run finished", "opened", len(opened))
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// OpenDueEnrollments opens every closed course whose open date falls before
// the end of the current hour and was never opened by the scheduler. A course
// closed again by its owner after that stays closed.
func OpenDueEnrollments(db *gorm.DB, at time.Time) ([]course.Course, error) {
	cutoff := now.With(at).EndOfHour()

	var due []course.Course
	err := db.Preload("Owner").
		Where("is_enroll_open = ? AND enroll_opened_at IS NULL AND open_date <= ?", false, cutoff).
		Find(&due).Error
	if err != nil {
		return nil, err
	}

	opened := make([]course.Course, 0, len(due))
	for _, c := range due {
		// UpdateColumns skips the save hooks
		err := db.Model(&course.Course{}).Where("id = ?", c.ID).UpdateColumns(map[string]interface{}{
			"is_enroll_open":   true,
			"enroll_opened_at": at,
		}).Error
		if err != nil {
			logger.Log.Error("[ENROLLMENT-SCHEDULER] failed to open course", "course", c.ID, "error", err)
			continue
		}
		c.IsEnrollOpen = true
		c.EnrollOpenedAt = &at
		opened = append(opened, c)
		SendEnrollmentOpenedEmail(c.Owner.Email, c.Owner.Name, c.Title)
	}
	return opened, nil
}
