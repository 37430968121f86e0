package course

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"courseplatform/apperr"

	"github.com/go-playground/validator/v10"
)

// Kind is the discriminator stored in item_type.
type Kind string

const (
	KindText                      Kind = "text"
	KindFile                      Kind = "file"
	KindImage                     Kind = "image"
	KindVideo                     Kind = "video"
	KindStringAssignment          Kind = "stringassignment"
	KindChoicesAssignment         Kind = "choicesassignment"
	KindMultipleChoicesAssignment Kind = "multiplechoicesassignment"
)

// Family tells which table a kind is stored in.
type Family int

const (
	FamilyContent Family = iota
	FamilyAssignment
)

// Descriptor describes one registered variant.
type Descriptor struct {
	Kind   Kind
	Family Family
	Group  string // key used when an item lists its entries by kind
	new    func() Payload
}

// NewPayload returns an empty payload of the variant.
func (d Descriptor) NewPayload() Payload { return d.new() }

// Validate checks p against the variant schema and returns a
// *apperr.ValidationError listing every failing field.
func (d Descriptor) Validate(p Payload) error {
	if p == nil || p.Kind() != d.Kind {
		return fmt.Errorf("payload for %s: %w", d.Kind, apperr.ErrUnknownContentType)
	}
	fields := map[string]string{}
	if err := validate.Struct(p); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = fieldMessage(fe)
			}
		}
	}
	if cc, ok := p.(crossChecker); ok {
		cc.crossCheck(fields)
	}
	if len(fields) > 0 {
		return apperr.NewValidationError(fields)
	}
	return nil
}

var registry = map[Kind]Descriptor{
	KindText:                      {Kind: KindText, Family: FamilyContent, Group: "texts", new: func() Payload { return &TextPayload{} }},
	KindFile:                      {Kind: KindFile, Family: FamilyContent, Group: "files", new: func() Payload { return &FilePayload{} }},
	KindImage:                     {Kind: KindImage, Family: FamilyContent, Group: "images", new: func() Payload { return &ImagePayload{} }},
	KindVideo:                     {Kind: KindVideo, Family: FamilyContent, Group: "videos", new: func() Payload { return &VideoPayload{} }},
	KindStringAssignment:          {Kind: KindStringAssignment, Family: FamilyAssignment, Group: "stringassignments", new: func() Payload { return &StringAssignmentPayload{} }},
	KindChoicesAssignment:         {Kind: KindChoicesAssignment, Family: FamilyAssignment, Group: "choicesassignments", new: func() Payload { return &ChoicesAssignmentPayload{} }},
	KindMultipleChoicesAssignment: {Kind: KindMultipleChoicesAssignment, Family: FamilyAssignment, Group: "multiplechoicesassignments", new: func() Payload { return &MultipleChoicesAssignmentPayload{} }},
}

// Resolve maps a discriminator to its descriptor.
func Resolve(kind string) (Descriptor, error) {
	d, ok := registry[Kind(strings.ToLower(strings.TrimSpace(kind)))]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", kind, apperr.ErrUnknownContentType)
	}
	return d, nil
}

// Kinds lists every registered discriminator in a stable order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is required!"
	case "url":
		return label + " must be a valid URL!"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries!", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long!", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s!", label, fe.Param())
	default:
		return label + " is invalid!"
	}
}
