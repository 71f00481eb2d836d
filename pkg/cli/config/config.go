package config

import (
	"os"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// CatalogConfig represents the course catalog configuration
type CatalogConfig struct {
	Courses []Course `toml:"course"`
}

// Course represents one course entry in the catalog configuration
type Course struct {
	Name    string   `toml:"name"`
	Modules []Module `toml:"module"`
}

// Module represents one module entry within a course
type Module struct {
	Name    string `toml:"name"`
	Summary string `toml:"summary"`
}

// Validate checks if the Course is valid
func (c *Course) Validate() error {
	if c.Name == "" {
		return goerr.New("course name is required")
	}
	for i, m := range c.Modules {
		if m.Name == "" {
			return goerr.New("module name is required",
				goerr.V("course", c.Name), goerr.V("index", i))
		}
	}
	return nil
}

// Validate checks if the CatalogConfig is valid
func (c *CatalogConfig) Validate() error {
	if len(c.Courses) == 0 {
		return goerr.New("catalog must contain at least one course")
	}

	names := make(map[string]bool)
	for _, course := range c.Courses {
		if err := course.Validate(); err != nil {
			return goerr.Wrap(err, "invalid course")
		}
		if names[course.Name] {
			return goerr.New("duplicate course name", goerr.V("name", course.Name))
		}
		names[course.Name] = true
	}

	return nil
}

// LoadCatalogConfiguration loads the course catalog from a TOML file
func LoadCatalogConfiguration(path string) (*CatalogConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var config CatalogConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// ToCourses converts the catalog configuration to domain courses
func (c *CatalogConfig) ToCourses() []*model.Course {
	courses := make([]*model.Course, len(c.Courses))
	for i, course := range c.Courses {
		modules := make([]model.Module, len(course.Modules))
		for j, m := range course.Modules {
			modules[j] = model.Module{
				Name:    m.Name,
				Summary: m.Summary,
			}
		}
		courses[i] = &model.Course{
			Name:    course.Name,
			Modules: modules,
		}
	}
	return courses
}
