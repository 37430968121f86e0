package controllers

import (
	"courseplatform/database"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	"courseplatform/policy"
	courseValidator "courseplatform/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// itemView lists the item entries grouped by variant, omitting empty groups.
// Answer keys are shown to staff and to the owner of each assignment only.
func itemView(tx *gorm.DB, it *course.Item, r policy.Requester) (fiber.Map, error) {
	contents, assignments, err := it.LoadEntries(tx)
	if err != nil {
		return nil, err
	}

	out := fiber.Map{
		"id":        it.ID,
		"module_id": it.ModuleID,
		"order":     it.Order,
	}
	groups := map[string][]map[string]interface{}{}
	for i := range contents {
		v, err := contentView(&contents[i])
		if err != nil {
			return nil, err
		}
		d, _ := course.Resolve(string(contents[i].ItemType))
		groups[d.Group] = append(groups[d.Group], v)
	}
	for i := range assignments {
		a := &assignments[i]
		v, err := a.View(policy.CanSeeAnswerKey(r, a))
		if err != nil {
			return nil, err
		}
		d, _ := course.Resolve(string(a.ItemType))
		groups[d.Group] = append(groups[d.Group], v)
	}
	for group, entries := range groups {
		out[group] = entries
	}
	return out, nil
}

// ListItems lists the module items in order with their entries.
func ListItems(c *fiber.Ctx) error {
	module := middleware.Resource(c).(*course.Module)
	r := middleware.CurrentRequester(c)
	db := database.Database.Db

	var items []course.Item
	if err := db.Where("module_id = ?", module.ID).Scopes(course.BySiblingOrder).Find(&items).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	views := make([]fiber.Map, 0, len(items))
	for i := range items {
		v, err := itemView(db, &items[i], r)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		views = append(views, v)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Items fetched successfully!", views)
}

// CreateItem appends an empty item to the module.
func CreateItem(c *fiber.Ctx) error {
	module := middleware.Resource(c).(*course.Module)
	reqData, ok := c.Locals("validatedItem").(*courseValidator.ItemRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	item := course.Item{ModuleID: module.ID, Order: reqData.Order}
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Item created successfully!", item)
}

func GetItem(c *fiber.Ctx) error {
	item := middleware.Resource(c).(*course.Item)

	v, err := itemView(database.Database.Db, item, middleware.CurrentRequester(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item fetched successfully!", v)
}

// UpdateItem moves the item. Entries are managed under /contents.
func UpdateItem(c *fiber.Ctx) error {
	item := middleware.Resource(c).(*course.Item)
	reqData, ok := c.Locals("validatedItem").(*courseValidator.ItemRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Order != nil {
		item.Order = reqData.Order
		if err := database.Database.Db.Model(item).Update("order_index", *reqData.Order).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	v, err := itemView(database.Database.Db, item, middleware.CurrentRequester(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item updated successfully!", v)
}

func DeleteItem(c *fiber.Ctx) error {
	item := middleware.Resource(c).(*course.Item)

	var refs []string
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		refs, err = assetRefs(tx, "item_id = ?", item.ID)
		if err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	removeAssets(refs...)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item deleted successfully!", nil)
}
