package model

import (
	"fmt"

	"github.com/impel-lab/compass/pkg/domain/types"
)

// Profile is the demographic triple describing a user. It is supplied by
// the caller per request and never inferred or mutated.
type Profile struct {
	Education  types.Education
	AgeGroup   types.AgeGroup
	Profession types.Profession
}

// MissingFields returns the names of all empty profile fields. All names
// are collected so callers can report every gap at once instead of only
// the first one encountered.
func (p Profile) MissingFields() []string {
	var missing []string
	if p.Education == "" {
		missing = append(missing, "education")
	}
	if p.AgeGroup == "" {
		missing = append(missing, "age_group")
	}
	if p.Profession == "" {
		missing = append(missing, "profession")
	}
	return missing
}

// Validate checks that all profile fields are set and hold defined values
func (p Profile) Validate() error {
	if err := p.Education.Validate(); err != nil {
		return err
	}
	if err := p.AgeGroup.Validate(); err != nil {
		return err
	}
	return p.Profession.Validate()
}

// Describe synthesizes the natural-language profile text used for
// embedding generation. The wording is fixed: changing it shifts every
// new vector relative to the stored corpus.
func (p Profile) Describe(query string) string {
	return fmt.Sprintf(
		"User with %s education, aged %s, working at %s level. Recently asked: '%s'",
		p.Education, p.AgeGroup, p.Profession, query,
	)
}
