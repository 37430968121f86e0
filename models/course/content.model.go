package course

import (
	"fmt"
	"time"

	"courseplatform/apperr"

	"gorm.io/gorm"
)

// Content is a text, file, image or video entry of an item. ItemType is the
// discriminator and always comes from the payload variant the row was built from.
type Content struct {
	gorm.Model
	ItemID   uint   `json:"item_id" gorm:"index;not null"`
	OwnerID  uint   `json:"owner_id" gorm:"index;not null"`
	ItemType Kind   `json:"item_type" gorm:"size:40;not null"`
	Title    string `json:"title" gorm:"size:250;not null"`
	Order    *int   `json:"order" gorm:"column:order_index;not null"`
	Body     string `json:"content,omitempty" gorm:"column:content;type:text"` // text
	File     string `json:"file,omitempty"`                                    // file and image storage reference
	URL      string `json:"url,omitempty"`                                     // video
}

func (c *Content) OrderValue() *int { return c.Order }
func (c *Content) SetOrder(o int)   { c.Order = &o }
func (c *Content) Siblings() (interface{}, map[string]interface{}) {
	return &Content{}, map[string]interface{}{"item_id": c.ItemID}
}
func (c *Content) Parent() (interface{}, uint) { return &Item{}, c.ItemID }

func (c *Content) BeforeSave(tx *gorm.DB) error {
	if d, err := Resolve(string(c.ItemType)); err != nil || d.Family != FamilyContent {
		return fmt.Errorf("content item_type %q: %w", c.ItemType, apperr.ErrUnknownContentType)
	}
	return nil
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	_, err := AssignOrder(tx, c)
	return err
}

func (c *Content) OwningCourse(tx *gorm.DB) (*Course, error) {
	it, err := LoadItem(tx, c.ItemID)
	if err != nil {
		return nil, err
	}
	return it.OwningCourse(tx)
}

func (c *Content) ResourceOwnerID() uint { return c.OwnerID }

// NewContent builds a row for p. The discriminator is taken from p.
func NewContent(p ContentPayload, itemID, ownerID uint) *Content {
	c := &Content{ItemID: itemID, OwnerID: ownerID, ItemType: p.Kind()}
	p.applyContent(c)
	return c
}

// Payload returns the row's variant.
func (c *Content) Payload() (ContentPayload, error) {
	d, err := Resolve(string(c.ItemType))
	if err != nil {
		return nil, err
	}
	p, ok := d.NewPayload().(ContentPayload)
	if !ok {
		return nil, fmt.Errorf("content item_type %q: %w", c.ItemType, apperr.ErrUnknownContentType)
	}
	p.loadContent(c)
	return p, nil
}

// Apply copies an updated payload of the same variant onto the row.
func (c *Content) Apply(p ContentPayload) error {
	if p.Kind() != c.ItemType {
		return fmt.Errorf("cannot change %s into %s: %w", c.ItemType, p.Kind(), apperr.ErrUnknownContentType)
	}
	p.applyContent(c)
	return nil
}

// View renders the row with the fields of its variant.
func (c *Content) View() (map[string]interface{}, error) {
	p, err := c.Payload()
	if err != nil {
		return nil, err
	}
	return view(p, c.ID, c.ItemType, c.ItemID, c.OwnerID, c.CreatedAt, c.UpdatedAt)
}

// LoadContent fetches a live content row of the given kind.
func LoadContent(tx *gorm.DB, kind Kind, id uint) (*Content, error) {
	var c Content
	if err := tx.Session(&gorm.Session{NewDB: true}).Where("item_type = ?", kind).First(&c, id).Error; err != nil {
		return nil, notFound(string(kind), id, err)
	}
	return &c, nil
}

func view(p Payload, id uint, kind Kind, itemID, ownerID uint, created, updated time.Time) (map[string]interface{}, error) {
	out, err := payloadMap(p)
	if err != nil {
		return nil, err
	}
	out["id"] = id
	out["item_type"] = kind
	out["item_id"] = itemID
	out["owner_id"] = ownerID
	out["created"] = created
	out["updated"] = updated
	return out, nil
}
