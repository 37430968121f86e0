package course

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ordered is implemented by rows ordered inside a sibling group (modules of a
// course, items of a module, contents or assignments of an item).
type Ordered interface {
	OrderValue() *int
	SetOrder(order int)
	// Siblings returns an empty model of the row's table and the parent
	// column values that identify its sibling group.
	Siblings() (model interface{}, scope map[string]interface{})
	// Parent returns an empty parent model and its id, locked while the next
	// order is computed.
	Parent() (model interface{}, id uint)
}

// AssignOrder keeps an explicit order as is, duplicates included. Otherwise it
// stores max(order in the sibling group) + 1, or 0 for the first sibling.
//
// On PostgreSQL and MySQL the parent row is locked FOR UPDATE first so
// concurrent inserts into the same group cannot compute the same value.
// SQLite has a single writer and needs no lock. Explicit orders are never
// checked, so collisions between explicit and automatic values remain possible.
func AssignOrder(tx *gorm.DB, e Ordered) (int, error) {
	if o := e.OrderValue(); o != nil {
		return *o, nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})

	parent, id := e.Parent()
	if err := LockForUpdate(db, parent, id); err != nil {
		return 0, err
	}

	model, scope := e.Siblings()
	var maxOrder int
	if err := db.Model(model).Where(scope).Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	next := maxOrder + 1
	e.SetOrder(next)
	return next, nil
}

// LockForUpdate locks the row id of model until tx ends. SQLite has a single
// writer and is left alone.
func LockForUpdate(tx *gorm.DB, model interface{}, id uint) error {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	return lockQuery(tx, model, id).Error
}

func lockQuery(tx *gorm.DB, model interface{}, id uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Take(model, id)
}

// siblingOrder is the ORDER BY used for every ordered listing. Ties between
// duplicate orders fall back to insertion order.
const siblingOrder = "order_index asc, id asc"

// BySiblingOrder orders a query the way sibling groups are listed.
func BySiblingOrder(db *gorm.DB) *gorm.DB {
	return db.Order(siblingOrder)
}
