package domain

import (
	"fmt"
	"time"
)

// ValidateDeclaration checks a proposed field-value map against the event
// configuration's declaration form. partial relaxes required-ness (used by
// incomplete notifications and correction diffs, which only carry the
// fields they touch); type checks and per-field validation rules always
// apply to the values that are present.
//
// Fields hidden under the proposed snapshot are not validated: the
// projector will prune their values anyway.
func ValidateDeclaration(cfg *EventConfiguration, decl Declaration, now time.Time, partial bool) error {
	var errs []FieldError

	known := make(map[string]struct{})
	for _, field := range cfg.FieldsInOrder() {
		known[field.ID] = struct{}{}

		visible := IsFieldVisible(field, decl, now)
		value, present := decl[field.ID]

		if !visible {
			continue
		}

		if !present || isEmptyValue(value) {
			if field.Required && !partial {
				errs = append(errs, FieldError{Field: field.ID, Message: "required"})
			}
			continue
		}

		if msg := checkFieldType(field, value); msg != "" {
			errs = append(errs, FieldError{Field: field.ID, Message: msg})
			continue
		}

		for _, rule := range field.Validation {
			if !Evaluate(rule.Condition, decl, now) {
				errs = append(errs, FieldError{Field: field.ID, Message: rule.Message})
			}
		}
	}

	for id := range decl {
		if _, ok := known[id]; !ok {
			errs = append(errs, FieldError{Field: id, Message: "not a form field"})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	}
	return false
}

// checkFieldType validates the JSON shape of a field value. Returns an
// empty string when the value is acceptable.
func checkFieldType(field Field, value any) string {
	switch field.Type {
	case FieldTypeText:
		if _, ok := value.(string); !ok {
			return "must be a string"
		}
	case FieldTypeNumber:
		if _, ok := asFloat(value); !ok {
			return "must be a number"
		}
	case FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return "must be a date string"
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Sprintf("must be a %s date", DateLayout)
		}
	case FieldTypeCheckbox:
		if _, ok := value.(bool); !ok {
			return "must be a boolean"
		}
	case FieldTypeSelect:
		s, ok := value.(string)
		if !ok {
			return "must be a string"
		}
		if len(field.Options) > 0 && !containsString(field.Options, s) {
			return "not an allowed option"
		}
	case FieldTypeFile:
		if !isFileShaped(value) {
			return "must be a file reference"
		}
	}
	return ""
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func isFileShaped(value any) bool {
	switch val := value.(type) {
	case map[string]any:
		_, ok := asFileReference(val)
		return ok
	case []any:
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return false
			}
			if _, ok := asFileReference(m); !ok {
				return false
			}
		}
		return true
	}
	return false
}
