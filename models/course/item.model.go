package course

import "gorm.io/gorm"

// Item groups the contents and assignments shown together inside a module.
type Item struct {
	gorm.Model
	ModuleID    uint         `json:"module_id" gorm:"index;not null"`
	Order       *int         `json:"order" gorm:"column:order_index;not null"`
	Contents    []Content    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Assignments []Assignment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (i *Item) OrderValue() *int { return i.Order }
func (i *Item) SetOrder(o int)   { i.Order = &o }
func (i *Item) Siblings() (interface{}, map[string]interface{}) {
	return &Item{}, map[string]interface{}{"module_id": i.ModuleID}
}
func (i *Item) Parent() (interface{}, uint) { return &Module{}, i.ModuleID }

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	_, err := AssignOrder(tx, i)
	return err
}

// AfterDelete cascades to the item contents and assignments.
func (i *Item) AfterDelete(tx *gorm.DB) error {
	if i.ID == 0 {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})

	var contents []Content
	if err := db.Where("item_id = ?", i.ID).Find(&contents).Error; err != nil {
		return err
	}
	if len(contents) > 0 {
		if err := db.Delete(&contents).Error; err != nil {
			return err
		}
	}

	var assignments []Assignment
	if err := db.Where("item_id = ?", i.ID).Find(&assignments).Error; err != nil {
		return err
	}
	if len(assignments) > 0 {
		return db.Delete(&assignments).Error
	}
	return nil
}

func (i *Item) OwningCourse(tx *gorm.DB) (*Course, error) {
	m, err := LoadModule(tx, i.ModuleID)
	if err != nil {
		return nil, err
	}
	return m.OwningCourse(tx)
}

// LoadItem fetches a live item by id.
func LoadItem(tx *gorm.DB, id uint) (*Item, error) {
	var it Item
	if err := tx.Session(&gorm.Session{NewDB: true}).First(&it, id).Error; err != nil {
		return nil, notFound("item", id, err)
	}
	return &it, nil
}

// LoadEntries returns the item contents and assignments in sibling order.
func (i *Item) LoadEntries(tx *gorm.DB) ([]Content, []Assignment, error) {
	db := tx.Session(&gorm.Session{NewDB: true})
	var contents []Content
	if err := db.Where("item_id = ?", i.ID).Scopes(BySiblingOrder).Find(&contents).Error; err != nil {
		return nil, nil, err
	}
	var assignments []Assignment
	if err := db.Where("item_id = ?", i.ID).Scopes(BySiblingOrder).Find(&assignments).Error; err != nil {
		return nil, nil, err
	}
	return contents, assignments, nil
}
