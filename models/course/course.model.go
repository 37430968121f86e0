package course

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"courseplatform/apperr"
	"courseplatform/models"

	"gorm.io/gorm"
)

// Course represents a learning course owned by the user who created it
type Course struct {
	gorm.Model
	OwnerID        uint            `json:"owner_id" gorm:"index;not null"`
	Owner          models.User     `json:"-" gorm:"foreignKey:OwnerID"`
	SubjectID      *uint           `json:"subject_id" gorm:"index"`
	Subject        *models.Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Title          string          `json:"title" gorm:"size:200;not null"`
	Slug           string          `json:"slug" gorm:"size:220;index"`
	Overview       string          `json:"overview" gorm:"type:text"`
	Price          uint            `json:"price" gorm:"default:0"` // USD
	OpenDate       time.Time       `json:"open_date"`
	IsEnrollOpen   bool            `json:"is_enroll_open" gorm:"default:false"`
	EnrollOpenedAt *time.Time      `json:"enroll_opened_at"`
	Visible        bool            `json:"visible" gorm:"not null"`
	Students       []models.User   `json:"-" gorm:"many2many:course_students"`
	Teachers       []models.User   `json:"-" gorm:"many2many:course_teachers"`
	Modules        []Module        `json:"modules,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// BeforeSave enforces the per-owner title uniqueness among live courses.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	var count int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Course{}).
		Where("owner_id = ? AND title = ? AND id <> ?", c.OwnerID, c.Title, c.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("course %q: %w", c.Title, apperr.ErrDuplicateResource)
	}
	if c.Slug == "" {
		c.Slug = fmt.Sprintf("%s-%d", Slugify(c.Title), c.OwnerID)
	}
	return nil
}

// AfterDelete cascades to the course modules.
func (c *Course) AfterDelete(tx *gorm.DB) error {
	if c.ID == 0 {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	var modules []Module
	if err := db.Where("course_id = ?", c.ID).Find(&modules).Error; err != nil {
		return err
	}
	if len(modules) == 0 {
		return nil
	}
	return db.Delete(&modules).Error
}

// OwningCourse reloads the course with its students and teachers.
func (c *Course) OwningCourse(tx *gorm.DB) (*Course, error) {
	return LoadCourse(tx, c.ID)
}

func (c *Course) ResourceOwnerID() uint { return c.OwnerID }

func (c *Course) HasStudent(userID uint) bool { return containsUser(c.Students, userID) }

func (c *Course) HasTeacher(userID uint) bool { return containsUser(c.Teachers, userID) }

func containsUser(users []models.User, userID uint) bool {
	if userID == 0 {
		return false
	}
	for _, u := range users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// LoadCourse fetches a course with the role sets used by permission checks.
func LoadCourse(tx *gorm.DB, id uint) (*Course, error) {
	var c Course
	err := tx.Session(&gorm.Session{NewDB: true}).
		Preload("Students").
		Preload("Teachers").
		First(&c, id).Error
	if err != nil {
		return nil, notFound("course", id, err)
	}
	return &c, nil
}

// VisibleTo hides courses with visible = false from everyone except staff and the owner.
func VisibleTo(userID uint, isStaff bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case isStaff:
			return db
		case userID != 0:
			return db.Where("visible = ? OR owner_id = ?", true, userID)
		default:
			return db.Where("visible = ?", true)
		}
	}
}

func notFound(what string, id uint, err error) error {
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%s %d: %w", what, id, apperr.ErrNotFound)
	}
	return err
}
