package controllers

import (
	"context"
	"fmt"
	"time"

	"courseplatform/database"
	"courseplatform/logger"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	"courseplatform/policy"
	"courseplatform/storage"
	"courseplatform/utils"
	contentValidator "courseplatform/validators/content"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// contentView renders a content row. Text content also carries its Markdown
// rendered as content_html.
func contentView(c *course.Content) (map[string]interface{}, error) {
	v, err := c.View()
	if err != nil {
		return nil, err
	}
	if c.ItemType == course.KindText {
		html, err := utils.RenderMarkdown(c.Body)
		if err != nil {
			return nil, err
		}
		v["content_html"] = html
	}
	return v, nil
}

func entryView(res policy.Resource, r policy.Requester) (map[string]interface{}, error) {
	switch row := res.(type) {
	case *course.Content:
		return contentView(row)
	case *course.Assignment:
		return row.View(policy.CanSeeAnswerKey(r, row))
	default:
		return nil, fmt.Errorf("unexpected entry %T", res)
	}
}

// storeUpload saves a multipart upload and points the payload at it. It
// returns the stored reference, or "" when the request carried no upload.
func storeUpload(c *fiber.Ctx, kind course.Kind, p course.Payload) (string, error) {
	upload, ok := c.Locals("upload").(*contentValidator.Upload)
	if !ok || upload == nil {
		return "", nil
	}
	if storage.Default == nil {
		return "", fmt.Errorf("asset storage is not configured")
	}

	src, err := upload.Header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ref, err := storage.Default.Save(c.UserContext(), storage.NewKey(string(kind), upload.Header.Filename, time.Now()), src)
	if err != nil {
		return "", err
	}
	switch v := p.(type) {
	case *course.FilePayload:
		v.File = ref
	case *course.ImagePayload:
		v.File = ref
	}
	return ref, nil
}

// removeAssets deletes stored assets whose rows are gone. Failures are only
// logged since the rows no longer point at them.
func removeAssets(refs ...string) {
	if storage.Default == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := storage.Default.Delete(ctx, ref); err != nil {
			logger.Log.Warn("failed to delete stored asset", "file", ref, "error", err)
		}
	}
}

// assetRefs lists the stored files of the contents matched by query and args.
func assetRefs(tx *gorm.DB, query string, args ...interface{}) ([]string, error) {
	var refs []string
	err := tx.Model(&course.Content{}).
		Where(query, args...).
		Where("file <> ''").
		Pluck("file", &refs).Error
	return refs, err
}

// CreateContent adds an entry of the :kind variant to the item. The
// requester becomes its owner.
func CreateContent(c *fiber.Ctx) error {
	item := middleware.Resource(c).(*course.Item)
	r := middleware.CurrentRequester(c)
	d, ok := c.Locals("contentKind").(course.Descriptor)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	p, ok := c.Locals("validatedContent").(course.Payload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ref, err := storeUpload(c, d.Kind, p)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var row policy.Resource
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		switch v := p.(type) {
		case course.ContentPayload:
			entry := course.NewContent(v, item.ID, r.UserID)
			row = entry
			return tx.Create(entry).Error
		case course.AssignmentPayload:
			entry, err := course.NewAssignment(v, item.ID, r.UserID)
			if err != nil {
				return err
			}
			row = entry
			return tx.Create(entry).Error
		default:
			return fmt.Errorf("unexpected payload %T", p)
		}
	})
	if err != nil {
		removeAssets(ref)
		return middleware.ErrorResponse(c, err)
	}

	v, err := entryView(row, r)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	logger.Log.Info("Content created", "kind", d.Kind, "item", item.ID, "owner", r.UserID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", v)
}

// GetContent returns the entry. Answer keys are hidden from everyone but the
// owner and staff.
func GetContent(c *fiber.Ctx) error {
	v, err := entryView(middleware.Resource(c), middleware.CurrentRequester(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", v)
}

// UpdateContent stores the merged payload prepared by the validator.
func UpdateContent(c *fiber.Ctx) error {
	res := middleware.Resource(c)
	p, ok := c.Locals("validatedContent").(course.Payload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	var previous string
	if row, ok := res.(*course.Content); ok {
		previous = row.File
	}
	ref, err := storeUpload(c, p.Kind(), p)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	switch row := res.(type) {
	case *course.Content:
		if cp, ok := p.(course.ContentPayload); ok {
			err = row.Apply(cp)
		}
	case *course.Assignment:
		if ap, ok := p.(course.AssignmentPayload); ok {
			err = row.Apply(ap)
		}
	}
	if err == nil {
		err = database.Database.Db.Save(res).Error
	}
	if err != nil {
		removeAssets(ref)
		return middleware.ErrorResponse(c, err)
	}
	if ref != "" && previous != ref {
		removeAssets(previous)
	}

	v, err := entryView(res, middleware.CurrentRequester(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", v)
}

// DeleteContent removes the entry, its submissions and its stored asset.
func DeleteContent(c *fiber.Ctx) error {
	res := middleware.Resource(c)

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(res).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if row, ok := res.(*course.Content); ok {
		removeAssets(row.File)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}
