// Package testutil opens throwaway databases and seeds rows for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"courseplatform/config"
	"courseplatform/database"
	"courseplatform/models"
	course "courseplatform/models/course"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory SQLite database, migrates it and installs it
// as database.Database for the duration of the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}

	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	tb.Cleanup(func() {
		database.Database = prev
		_ = sqlDB.Close()
	})
	return db
}

// Config installs a test configuration as config.AppConfig.
func Config(tb testing.TB) *config.Config {
	tb.Helper()
	prev := config.AppConfig
	cfg := config.FromEnv()
	cfg.LogMode = "test"
	cfg.JWTKey = "test-secret"
	cfg.SaltRound = 4
	cfg.DBDriver = "sqlite"
	cfg.StorageDriver = "local"
	cfg.UploadDir = tb.TempDir()
	cfg.SendgridAPIKey = ""
	cfg.VerifyVideoURLs = false
	cfg.EnableEnrollmentJob = false
	config.AppConfig = cfg
	tb.Cleanup(func() { config.AppConfig = prev })
	return cfg
}

func SeedUser(tb testing.TB, db *gorm.DB, email string, staff bool) *models.User {
	tb.Helper()
	u := &models.User{Name: "user " + email, Email: email, Password: "pw", IsStaff: staff}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a visible, open course owned by owner.
func SeedCourse(tb testing.TB, db *gorm.DB, owner *models.User, title string) *course.Course {
	tb.Helper()
	c := &course.Course{
		OwnerID:      owner.ID,
		Title:        title,
		Overview:     "overview of " + title,
		OpenDate:     time.Now().Add(-24 * time.Hour),
		IsEnrollOpen: true,
		Visible:      true,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, db *gorm.DB, c *course.Course, title string) *course.Module {
	tb.Helper()
	m := &course.Module{CourseID: c.ID, Title: title}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedItem(tb testing.TB, db *gorm.DB, m *course.Module) *course.Item {
	tb.Helper()
	it := &course.Item{ModuleID: m.ID}
	if err := db.Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedText(tb testing.TB, db *gorm.DB, it *course.Item, ownerID uint, title, body string) *course.Content {
	tb.Helper()
	c := course.NewContent(&course.TextPayload{Common: course.Common{Title: title}, Content: body}, it.ID, ownerID)
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed text: %v", err)
	}
	return c
}

func SeedAssignment(tb testing.TB, db *gorm.DB, it *course.Item, ownerID uint, p course.AssignmentPayload) *course.Assignment {
	tb.Helper()
	a, err := course.NewAssignment(p, it.ID, ownerID)
	if err != nil {
		tb.Fatalf("build assignment: %v", err)
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

// Enroll adds users to the course as students.
func Enroll(tb testing.TB, db *gorm.DB, c *course.Course, users ...*models.User) {
	tb.Helper()
	for _, u := range users {
		if err := db.Model(c).Association("Students").Append(u); err != nil {
			tb.Fatalf("enroll: %v", err)
		}
	}
}

func AddTeacher(tb testing.TB, db *gorm.DB, c *course.Course, users ...*models.User) {
	tb.Helper()
	for _, u := range users {
		if err := db.Model(c).Association("Teachers").Append(u); err != nil {
			tb.Fatalf("add teacher: %v", err)
		}
	}
}
