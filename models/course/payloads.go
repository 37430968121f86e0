package course

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the client-facing schema of one variant. The set of
// implementations is closed: every registered kind has exactly one.
type Payload interface {
	Kind() Kind
}

// ContentPayload is implemented by the text, file, image and video variants.
type ContentPayload interface {
	Payload
	applyContent(*Content)
	loadContent(*Content)
}

// AssignmentPayload is implemented by the gradeable variants.
type AssignmentPayload interface {
	Payload
	applyAssignment(*Assignment) error
	loadAssignment(*Assignment)
	scrubAnswers()
}

type crossChecker interface {
	crossCheck(fields map[string]string)
}

// Common holds the fields shared by every variant. A nil Order asks for the
// next free position.
type Common struct {
	Title string `json:"title" validate:"required,max=250"`
	Order *int   `json:"order" validate:"omitempty,gte=0"`
}

type TextPayload struct {
	Common
	Content string `json:"content" validate:"required"`
}

type FilePayload struct {
	Common
	File string `json:"file" validate:"required,max=255"`
}

type ImagePayload struct {
	Common
	File string `json:"file" validate:"required,max=255"`
}

type VideoPayload struct {
	Common
	URL string `json:"url" validate:"required,url,max=500"`
}

// AssignmentCommon holds the grading settings shared by every assignment.
type AssignmentCommon struct {
	Common
	MaxScore    int  `json:"max_score" validate:"gt=0,lte=32767"`
	MaxAttempts int  `json:"max_attempts" validate:"gte=0,lte=32767"`
	PaidOnly    bool `json:"paid_only"`
}

type StringAssignmentPayload struct {
	AssignmentCommon
	Answer string `json:"answer" validate:"required,max=200"`
}

type ChoicesAssignmentPayload struct {
	AssignmentCommon
	Choices []string `json:"choices" validate:"required,min=1,dive,required"`
	Answer  string   `json:"answer" validate:"required,max=80"`
}

type MultipleChoicesAssignmentPayload struct {
	AssignmentCommon
	Choices        []string `json:"choices" validate:"required,min=1,dive,required"`
	CorrectChoices []string `json:"correct_choices" validate:"required,min=1,dive,required"`
}

func (*TextPayload) Kind() Kind                      { return KindText }
func (*FilePayload) Kind() Kind                      { return KindFile }
func (*ImagePayload) Kind() Kind                     { return KindImage }
func (*VideoPayload) Kind() Kind                     { return KindVideo }
func (*StringAssignmentPayload) Kind() Kind          { return KindStringAssignment }
func (*ChoicesAssignmentPayload) Kind() Kind         { return KindChoicesAssignment }
func (*MultipleChoicesAssignmentPayload) Kind() Kind { return KindMultipleChoicesAssignment }

func (c *Common) applyTo(title *string, order **int) {
	*title = c.Title
	if c.Order != nil {
		o := *c.Order
		*order = &o
	}
}

func (c *Common) loadFrom(title string, order *int) {
	c.Title = title
	if order != nil {
		o := *order
		c.Order = &o
	}
}

func (p *TextPayload) applyContent(c *Content) { p.applyTo(&c.Title, &c.Order); c.Body = p.Content }
func (p *TextPayload) loadContent(c *Content)  { p.loadFrom(c.Title, c.Order); p.Content = c.Body }

func (p *FilePayload) applyContent(c *Content) { p.applyTo(&c.Title, &c.Order); c.File = p.File }
func (p *FilePayload) loadContent(c *Content)  { p.loadFrom(c.Title, c.Order); p.File = c.File }

func (p *ImagePayload) applyContent(c *Content) { p.applyTo(&c.Title, &c.Order); c.File = p.File }
func (p *ImagePayload) loadContent(c *Content)  { p.loadFrom(c.Title, c.Order); p.File = c.File }

func (p *VideoPayload) applyContent(c *Content) { p.applyTo(&c.Title, &c.Order); c.URL = p.URL }
func (p *VideoPayload) loadContent(c *Content)  { p.loadFrom(c.Title, c.Order); p.URL = c.URL }

func (p *AssignmentCommon) applyCommon(a *Assignment) {
	p.applyTo(&a.Title, &a.Order)
	a.MaxScore = p.MaxScore
	a.MaxAttempts = p.MaxAttempts
	a.PaidOnly = p.PaidOnly
}

func (p *AssignmentCommon) loadCommon(a *Assignment) {
	p.loadFrom(a.Title, a.Order)
	p.MaxScore = a.MaxScore
	p.MaxAttempts = a.MaxAttempts
	p.PaidOnly = a.PaidOnly
}

func (p *StringAssignmentPayload) applyAssignment(a *Assignment) error {
	p.applyCommon(a)
	a.Answer = p.Answer
	return nil
}

func (p *StringAssignmentPayload) loadAssignment(a *Assignment) {
	p.loadCommon(a)
	p.Answer = a.Answer
}

func (p *StringAssignmentPayload) scrubAnswers() { p.Answer = "" }

func (p *ChoicesAssignmentPayload) applyAssignment(a *Assignment) error {
	p.applyCommon(a)
	a.Answer = p.Answer
	return a.SetChoices(p.Choices)
}

func (p *ChoicesAssignmentPayload) loadAssignment(a *Assignment) {
	p.loadCommon(a)
	p.Choices = a.Choices()
	p.Answer = a.Answer
}

func (p *ChoicesAssignmentPayload) scrubAnswers() { p.Answer = "" }

func (p *ChoicesAssignmentPayload) crossCheck(fields map[string]string) {
	checkChoiceOptions(p.Choices, "choices", fields)
	if p.Answer != "" && !contains(p.Choices, p.Answer) {
		setOnce(fields, "answer", "Answer must be one of the choices!")
	}
}

func (p *MultipleChoicesAssignmentPayload) applyAssignment(a *Assignment) error {
	p.applyCommon(a)
	if err := a.SetChoices(p.Choices); err != nil {
		return err
	}
	return a.SetCorrectChoices(p.CorrectChoices)
}

func (p *MultipleChoicesAssignmentPayload) loadAssignment(a *Assignment) {
	p.loadCommon(a)
	p.Choices = a.Choices()
	p.CorrectChoices = a.CorrectChoices()
}

func (p *MultipleChoicesAssignmentPayload) scrubAnswers() { p.CorrectChoices = nil }

func (p *MultipleChoicesAssignmentPayload) crossCheck(fields map[string]string) {
	checkChoiceOptions(p.Choices, "choices", fields)
	checkChoiceOptions(p.CorrectChoices, "correct_choices", fields)
	for _, c := range p.CorrectChoices {
		if !contains(p.Choices, c) {
			setOnce(fields, "correct_choices", fmt.Sprintf("Correct choice %q is not one of the choices!", c))
			break
		}
	}
}

func checkChoiceOptions(options []string, field string, fields map[string]string) {
	for _, o := range options {
		if strings.Contains(o, ChoiceSeparator) {
			setOnce(fields, field, fmt.Sprintf("Choices may not contain %q!", ChoiceSeparator))
			return
		}
	}
}

func setOnce(fields map[string]string, key, msg string) {
	if _, ok := fields[key]; !ok {
		fields[key] = msg
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// payloadMap flattens a payload into its JSON field map.
func payloadMap(p Payload) (map[string]interface{}, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
