package domain

// EventConfiguration describes one registrable event type as supplied by
// the country configuration service: the declaration form and the actions
// it supports. The engine treats it as data and must tolerate it changing
// between requests (hot reload).
type EventConfiguration struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Declaration []FormPage     `json:"declaration"`
	Actions     []ActionConfig `json:"actions"`
}

// ActionConfig declares, per action type, the scopes permitted to request
// it and the form pages used to validate its payload. An empty Scopes list
// means any authenticated caller may request the action.
type ActionConfig struct {
	Type   ActionType `json:"type"`
	Scopes []Scope    `json:"scopes,omitempty"`
	Pages  []string   `json:"pages,omitempty"`
}

// FormPage groups declaration fields. Field order within pages is the
// declaration order used by the projector's visibility pass.
type FormPage struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"fields"`
}

// FieldType is the value type of a declaration field.
type FieldType string

const (
	FieldTypeText     FieldType = "TEXT"
	FieldTypeNumber   FieldType = "NUMBER"
	FieldTypeDate     FieldType = "DATE"
	FieldTypeCheckbox FieldType = "CHECKBOX"
	FieldTypeSelect   FieldType = "SELECT"
	FieldTypeFile     FieldType = "FILE"
)

// ConditionalType says what a field conditional controls.
type ConditionalType string

const (
	ConditionalShow ConditionalType = "SHOW"
	ConditionalHide ConditionalType = "HIDE"
	// ConditionalDisplayOnReview only affects review-screen rendering and
	// is ignored by the projector.
	ConditionalDisplayOnReview ConditionalType = "DISPLAY_ON_REVIEW"
)

// FieldConditional gates a field's visibility on an expression over the
// current declaration snapshot.
type FieldConditional struct {
	Type      ConditionalType `json:"type"`
	Condition Condition       `json:"condition"`
}

// ValidationRule is a per-field predicate that must hold for the field's
// value to be accepted, with the message reported when it does not.
type ValidationRule struct {
	Message   string    `json:"message"`
	Condition Condition `json:"condition"`
}

// Field describes a single declaration field.
type Field struct {
	ID           string             `json:"id"`
	Type         FieldType          `json:"type"`
	Label        string             `json:"label,omitempty"`
	Required     bool               `json:"required,omitempty"`
	Parent       *string            `json:"parent,omitempty"`
	Conditionals []FieldConditional `json:"conditionals,omitempty"`
	Validation   []ValidationRule   `json:"validation,omitempty"`
	Options      []string           `json:"options,omitempty"`
}

// FieldsInOrder returns every field of the declaration form in page and
// in-page order.
func (c *EventConfiguration) FieldsInOrder() []Field {
	var fields []Field
	for _, page := range c.Declaration {
		fields = append(fields, page.Fields...)
	}
	return fields
}

// FieldByID returns the field with the given id, or nil.
func (c *EventConfiguration) FieldByID(id string) *Field {
	for pi := range c.Declaration {
		for fi := range c.Declaration[pi].Fields {
			if c.Declaration[pi].Fields[fi].ID == id {
				return &c.Declaration[pi].Fields[fi]
			}
		}
	}
	return nil
}

// ActionConfigFor returns the configuration for the given action type, or
// nil when the event type does not configure it.
func (c *EventConfiguration) ActionConfigFor(t ActionType) *ActionConfig {
	for i := range c.Actions {
		if c.Actions[i].Type == t {
			return &c.Actions[i]
		}
	}
	return nil
}
