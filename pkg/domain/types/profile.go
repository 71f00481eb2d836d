package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Education represents the user's education level
type Education string

const (
	EducationHighSchool    Education = "High School"
	EducationUndergraduate Education = "Undergraduate"
	EducationGraduate      Education = "Graduate"
	EducationDoctorate     Education = "Doctorate"
)

// Validate checks if the Education is one of the defined levels
func (e Education) Validate() error {
	switch e {
	case EducationHighSchool, EducationUndergraduate, EducationGraduate, EducationDoctorate:
		return nil
	}
	return goerr.New("invalid education level", goerr.V("education", e))
}

// String returns the string representation of Education
func (e Education) String() string {
	return string(e)
}

// AgeGroup represents the user's age bracket
type AgeGroup string

const (
	AgeGroup18To25 AgeGroup = "18-25"
	AgeGroup26To40 AgeGroup = "26-40"
	AgeGroup41To60 AgeGroup = "41-60"
	AgeGroupOver60 AgeGroup = "60+"
)

// Validate checks if the AgeGroup is one of the defined brackets
func (a AgeGroup) Validate() error {
	switch a {
	case AgeGroup18To25, AgeGroup26To40, AgeGroup41To60, AgeGroupOver60:
		return nil
	}
	return goerr.New("invalid age group", goerr.V("age_group", a))
}

// String returns the string representation of AgeGroup
func (a AgeGroup) String() string {
	return string(a)
}

// Profession represents the user's career stage
type Profession string

const (
	ProfessionStudent      Profession = "Student"
	ProfessionEntryLevel   Profession = "Entry-Level"
	ProfessionProfessional Profession = "Professional"
	ProfessionExecutive    Profession = "Executive"
)

// Validate checks if the Profession is one of the defined stages
func (p Profession) Validate() error {
	switch p {
	case ProfessionStudent, ProfessionEntryLevel, ProfessionProfessional, ProfessionExecutive:
		return nil
	}
	return goerr.New("invalid profession", goerr.V("profession", p))
}

// String returns the string representation of Profession
func (p Profession) String() string {
	return string(p)
}
