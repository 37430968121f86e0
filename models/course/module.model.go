package course

import "gorm.io/gorm"

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Order       *int   `json:"order" gorm:"column:order_index;not null"` // position in course
	Items       []Item `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Module) OrderValue() *int { return m.Order }
func (m *Module) SetOrder(o int)   { m.Order = &o }
func (m *Module) Siblings() (interface{}, map[string]interface{}) {
	return &Module{}, map[string]interface{}{"course_id": m.CourseID}
}
func (m *Module) Parent() (interface{}, uint) { return &Course{}, m.CourseID }

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	_, err := AssignOrder(tx, m)
	return err
}

// AfterDelete cascades to the module items.
func (m *Module) AfterDelete(tx *gorm.DB) error {
	if m.ID == 0 {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	var items []Item
	if err := db.Where("module_id = ?", m.ID).Find(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Delete(&items).Error
}

func (m *Module) OwningCourse(tx *gorm.DB) (*Course, error) {
	return LoadCourse(tx, m.CourseID)
}

// LoadModule fetches a live module by id.
func LoadModule(tx *gorm.DB, id uint) (*Module, error) {
	var m Module
	if err := tx.Session(&gorm.Session{NewDB: true}).First(&m, id).Error; err != nil {
		return nil, notFound("module", id, err)
	}
	return &m, nil
}
