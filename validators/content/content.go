package contentValidator

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"courseplatform/apperr"
	"courseplatform/config"
	"courseplatform/grading"
	"courseplatform/middleware"
	course "courseplatform/models/course"
	"courseplatform/utils"

	"github.com/gofiber/fiber/v2"
)

// Upload is a file sent with a multipart file or image payload. The
// controller stores it and replaces the payload reference.
type Upload struct {
	Header *multipart.FileHeader
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// parseMultipart fills a file or image payload from form fields.
func parseMultipart(c *fiber.Ctx, p course.Payload) (*Upload, error) {
	var common *course.Common
	var file *string
	switch v := p.(type) {
	case *course.FilePayload:
		common, file = &v.Common, &v.File
	case *course.ImagePayload:
		common, file = &v.Common, &v.File
	default:
		return nil, apperr.Field("content_type", "Only file and image content accept multipart uploads!")
	}

	if title := c.FormValue("title"); title != "" {
		common.Title = title
	}
	if raw := c.FormValue("order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperr.Field("order", "Order must be a number!")
		}
		common.Order = &order
	}

	header, err := c.FormFile("file")
	if err != nil {
		if ref := c.FormValue("file"); ref != "" {
			*file = ref
		}
		return nil, nil
	}
	*file = header.Filename
	return &Upload{Header: header}, nil
}

func checkPayload(c *fiber.Ctx, d course.Descriptor, p course.Payload) error {
	if err := d.Validate(p); err != nil {
		return err
	}
	if v, ok := p.(*course.VideoPayload); ok && config.AppConfig.VerifyVideoURLs {
		timeout := time.Duration(config.AppConfig.VideoProbeTimeout) * time.Second
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		return utils.ProbeVideoURL(ctx, v.URL, timeout)
	}
	return nil
}

// CreateContent parses and validates the payload of the :kind variant. A
// client sent item_type is ignored, the variant comes from the route.
func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := course.Resolve(c.Params("kind"))
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		p := d.NewPayload()
		if isMultipart(c) {
			upload, err := parseMultipart(c, p)
			if err != nil {
				return middleware.ErrorResponse(c, err)
			}
			c.Locals("upload", upload)
		} else if err := c.BodyParser(p); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := checkPayload(c, d, p); err != nil {
			return middleware.ErrorResponse(c, err)
		}

		c.Locals("contentKind", d)
		c.Locals("validatedContent", p)
		return c.Next()
	}
}

// UpdateContent merges the sent fields onto the stored variant and validates
// the result. It runs after the resource was loaded by the access check.
func UpdateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := course.Resolve(c.Params("kind"))
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		var p course.Payload
		switch row := middleware.Resource(c).(type) {
		case *course.Content:
			p, err = row.Payload()
		case *course.Assignment:
			p, err = row.Payload()
		default:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
		}
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		if isMultipart(c) {
			upload, err := parseMultipart(c, p)
			if err != nil {
				return middleware.ErrorResponse(c, err)
			}
			c.Locals("upload", upload)
		} else if err := c.BodyParser(p); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := checkPayload(c, d, p); err != nil {
			return middleware.ErrorResponse(c, err)
		}

		c.Locals("validatedContent", p)
		return c.Next()
	}
}

// Submission validates an answer against the shape its assignment expects.
func Submission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := middleware.Resource(c).(*course.Assignment)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
		}

		reqData := new(grading.Answer)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		switch a.ItemType {
		case course.KindMultipleChoicesAssignment:
			if len(reqData.Values) == 0 {
				errors["answers"] = "At least one answer is required!"
			}
		default:
			if strings.TrimSpace(reqData.Value) == "" {
				errors["answer"] = "Answer is required!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}
