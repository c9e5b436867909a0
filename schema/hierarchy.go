package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed questionnaires/public_space.yaml
var defaultQuestionnaire []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Criterion is one top-level criterion and its ordered sub-criteria.
type Criterion struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	SubCriteria []string `yaml:"sub_criteria" json:"sub_criteria" validate:"dive,required"`
}

// Hierarchy is the fixed two-level questionnaire shared by every expert in one aggregation.
type Hierarchy struct {
	Name     string      `yaml:"name" json:"name" validate:"required"`
	Criteria []Criterion `yaml:"criteria" json:"criteria" validate:"required,min=1,dive"`
}

// Validate checks required fields and label uniqueness. Sub-criteria sets
// must be disjoint across criteria.
func (h Hierarchy) Validate() error {
	if err := validate.Struct(h); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid hierarchy: field %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid hierarchy: %w", err)
	}

	seenCriteria := make(map[string]struct{}, len(h.Criteria))
	seenSubs := make(map[string]string)
	for _, c := range h.Criteria {
		name := NormalizeLabel(c.Name)
		if _, dup := seenCriteria[name]; dup {
			return fmt.Errorf("invalid hierarchy: duplicate criterion %q", name)
		}
		seenCriteria[name] = struct{}{}
		for _, s := range c.SubCriteria {
			sub := NormalizeLabel(s)
			if owner, dup := seenSubs[sub]; dup {
				return fmt.Errorf("invalid hierarchy: sub-criterion %q appears under both %q and %q", sub, owner, name)
			}
			seenSubs[sub] = name
		}
	}
	return nil
}

// CriteriaKeys returns the ordered top-level labels.
func (h Hierarchy) CriteriaKeys() []string {
	keys := make([]string, len(h.Criteria))
	for i, c := range h.Criteria {
		keys[i] = NormalizeLabel(c.Name)
	}
	return keys
}

// SubCriteria returns the ordered sub-criteria of the named criterion.
func (h Hierarchy) SubCriteria(criterion string) ([]string, bool) {
	criterion = NormalizeLabel(criterion)
	for _, c := range h.Criteria {
		if NormalizeLabel(c.Name) == criterion {
			subs := make([]string, len(c.SubCriteria))
			for i, s := range c.SubCriteria {
				subs[i] = NormalizeLabel(s)
			}
			return subs, true
		}
	}
	return nil, false
}

// ParseHierarchy decodes and validates a YAML (or JSON) questionnaire.
func ParseHierarchy(data []byte) (Hierarchy, error) {
	var h Hierarchy
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Hierarchy{}, fmt.Errorf("failed to parse hierarchy: %w", err)
	}
	if err := h.Validate(); err != nil {
		return Hierarchy{}, err
	}
	return h, nil
}

// LoadHierarchy reads a questionnaire file. An empty path yields DefaultHierarchy.
func LoadHierarchy(path string) (Hierarchy, error) {
	if path == "" {
		return DefaultHierarchy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Hierarchy{}, fmt.Errorf("failed to read hierarchy file %q: %w", path, err)
	}
	return ParseHierarchy(data)
}

// DefaultHierarchy returns the bundled public-space questionnaire.
func DefaultHierarchy() (Hierarchy, error) {
	return ParseHierarchy(defaultQuestionnaire)
}
