package extract

import (
	"fmt"
	"strings"

	"go-jobpost-crawler/internal/models"
)

// Field names a DetailFields member a rule can fill.
type Field string

const (
	FieldCompanyNameDetail Field = "company_name_detail"
	FieldEmploymentType    Field = "employment_type"
)

// Rule classifies a heading into Field when the heading contains any of the markers.
// With StripMarkers the matched markers are removed from the stored value.
type Rule struct {
	Field        Field    `yaml:"field"`
	Contains     []string `yaml:"contains"`
	StripMarkers bool     `yaml:"strip_markers"`
}

// Validate reports a rule that can never match or targets an unknown field.
func (r Rule) Validate() error {
	switch r.Field {
	case FieldCompanyNameDetail, FieldEmploymentType:
	default:
		return fmt.Errorf("unknown rule field %q", r.Field)
	}
	if len(r.Contains) == 0 {
		return fmt.Errorf("rule for %s has no markers", r.Field)
	}
	for _, m := range r.Contains {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("rule for %s has an empty marker", r.Field)
		}
	}
	return nil
}

// match returns the value the rule yields for text, and whether it matched.
func (r Rule) match(text string) (string, bool) {
	matched := false
	for _, m := range r.Contains {
		if strings.Contains(text, CleanText(m)) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	if r.StripMarkers {
		for _, m := range r.Contains {
			text = strings.ReplaceAll(text, CleanText(m), "")
		}
	}
	return CleanText(text), true
}

// Classify runs the rule table over headings in document order.
//
// Each heading is claimed by the first rule that matches it, so a heading feeds at most
// one field. When several headings land in the same field the last one wins.
func Classify(rules []Rule, headings []string) models.DetailFields {
	var fields models.DetailFields
	for _, h := range headings {
		text := CleanText(h)
		if text == "" {
			continue
		}
		for _, r := range rules {
			value, ok := r.match(text)
			if !ok {
				continue
			}
			switch r.Field {
			case FieldCompanyNameDetail:
				fields.CompanyNameDetail = value
			case FieldEmploymentType:
				fields.EmploymentType = value
			}
			break
		}
	}
	return fields
}
