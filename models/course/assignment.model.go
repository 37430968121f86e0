package course

import (
	"fmt"

	"courseplatform/apperr"

	"gorm.io/gorm"
)

// Assignment is a gradeable entry of an item. Choice columns hold options
// joined with ChoiceSeparator and are decoded on access.
type Assignment struct {
	gorm.Model
	ItemID            uint   `json:"item_id" gorm:"index;not null"`
	OwnerID           uint   `json:"owner_id" gorm:"index;not null"`
	ItemType          Kind   `json:"item_type" gorm:"size:40;not null"`
	Title             string `json:"title" gorm:"size:250;not null"`
	Order             *int   `json:"order" gorm:"column:order_index;not null"`
	MaxScore          int    `json:"max_score" gorm:"not null"`
	MaxAttempts       int    `json:"max_attempts" gorm:"default:0"` // 0 means unlimited
	PaidOnly          bool   `json:"paid_only" gorm:"default:false"`
	Answer            string `json:"-" gorm:"size:200"`
	ChoicesRaw        string `json:"-" gorm:"column:choices;type:text"`
	CorrectChoicesRaw string `json:"-" gorm:"column:correct_choices;type:text"`
}

func (a *Assignment) Choices() []string { return DecodeChoices(a.ChoicesRaw) }

func (a *Assignment) CorrectChoices() []string { return DecodeChoices(a.CorrectChoicesRaw) }

func (a *Assignment) SetChoices(options []string) error {
	raw, err := EncodeChoices(options)
	if err != nil {
		return err
	}
	a.ChoicesRaw = raw
	return nil
}

func (a *Assignment) SetCorrectChoices(options []string) error {
	raw, err := EncodeChoices(options)
	if err != nil {
		return err
	}
	a.CorrectChoicesRaw = raw
	return nil
}

func (a *Assignment) OrderValue() *int { return a.Order }
func (a *Assignment) SetOrder(o int)   { a.Order = &o }
func (a *Assignment) Siblings() (interface{}, map[string]interface{}) {
	return &Assignment{}, map[string]interface{}{"item_id": a.ItemID}
}
func (a *Assignment) Parent() (interface{}, uint) { return &Item{}, a.ItemID }

func (a *Assignment) BeforeSave(tx *gorm.DB) error {
	if d, err := Resolve(string(a.ItemType)); err != nil || d.Family != FamilyAssignment {
		return fmt.Errorf("assignment item_type %q: %w", a.ItemType, apperr.ErrUnknownContentType)
	}
	return nil
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	_, err := AssignOrder(tx, a)
	return err
}

// AfterDelete removes the submissions made against the assignment.
func (a *Assignment) AfterDelete(tx *gorm.DB) error {
	if a.ID == 0 {
		return nil
	}
	return tx.Session(&gorm.Session{NewDB: true}).Where("assignment_id = ?", a.ID).Delete(&Submission{}).Error
}

func (a *Assignment) OwningCourse(tx *gorm.DB) (*Course, error) {
	it, err := LoadItem(tx, a.ItemID)
	if err != nil {
		return nil, err
	}
	return it.OwningCourse(tx)
}

func (a *Assignment) ResourceOwnerID() uint { return a.OwnerID }

// NewAssignment builds a row for p. The discriminator is taken from p.
func NewAssignment(p AssignmentPayload, itemID, ownerID uint) (*Assignment, error) {
	a := &Assignment{ItemID: itemID, OwnerID: ownerID, ItemType: p.Kind()}
	if err := p.applyAssignment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Payload returns the row's variant.
func (a *Assignment) Payload() (AssignmentPayload, error) {
	d, err := Resolve(string(a.ItemType))
	if err != nil {
		return nil, err
	}
	p, ok := d.NewPayload().(AssignmentPayload)
	if !ok {
		return nil, fmt.Errorf("assignment item_type %q: %w", a.ItemType, apperr.ErrUnknownContentType)
	}
	p.loadAssignment(a)
	return p, nil
}

// Apply copies an updated payload of the same variant onto the row.
func (a *Assignment) Apply(p AssignmentPayload) error {
	if p.Kind() != a.ItemType {
		return fmt.Errorf("cannot change %s into %s: %w", a.ItemType, p.Kind(), apperr.ErrUnknownContentType)
	}
	return p.applyAssignment(a)
}

// View renders the row with the fields of its variant. Unless revealAnswers is
// set the answer key is emptied.
func (a *Assignment) View(revealAnswers bool) (map[string]interface{}, error) {
	p, err := a.Payload()
	if err != nil {
		return nil, err
	}
	if !revealAnswers {
		p.scrubAnswers()
	}
	return view(p, a.ID, a.ItemType, a.ItemID, a.OwnerID, a.CreatedAt, a.UpdatedAt)
}

// LoadAssignment fetches a live assignment row of the given kind.
func LoadAssignment(tx *gorm.DB, kind Kind, id uint) (*Assignment, error) {
	var a Assignment
	if err := tx.Session(&gorm.Session{NewDB: true}).Where("item_type = ?", kind).First(&a, id).Error; err != nil {
		return nil, notFound(string(kind), id, err)
	}
	return &a, nil
}
