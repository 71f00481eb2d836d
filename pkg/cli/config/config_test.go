package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/impel-lab/compass/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644)).Required()
	return path
}

func TestLoadCatalogConfiguration(t *testing.T) {
	t.Run("loads a valid catalog", func(t *testing.T) {
		path := writeCatalog(t, `
[[course]]
name = "ML Basics"

[[course.module]]
name = "Regression"
summary = "Linear models"

[[course.module]]
name = "Classification"
summary = "Decision boundaries"

[[course]]
name = "Data Engineering"
`)
		cfg, err := config.LoadCatalogConfiguration(path)
		gt.NoError(t, err).Required()
		gt.Array(t, cfg.Courses).Length(2)
		gt.Value(t, cfg.Courses[0].Name).Equal("ML Basics")
		gt.Array(t, cfg.Courses[0].Modules).Length(2)
		gt.Value(t, cfg.Courses[0].Modules[1].Summary).Equal("Decision boundaries")

		courses := cfg.ToCourses()
		gt.Array(t, courses).Length(2)
		gt.Value(t, courses[0].Modules[0].Name).Equal("Regression")
	})

	t.Run("rejects an empty catalog", func(t *testing.T) {
		path := writeCatalog(t, "")
		_, err := config.LoadCatalogConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("rejects duplicate course names", func(t *testing.T) {
		path := writeCatalog(t, `
[[course]]
name = "ML Basics"

[[course]]
name = "ML Basics"
`)
		_, err := config.LoadCatalogConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("rejects unnamed modules", func(t *testing.T) {
		path := writeCatalog(t, `
[[course]]
name = "ML Basics"

[[course.module]]
summary = "No name"
`)
		_, err := config.LoadCatalogConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("rejects invalid TOML", func(t *testing.T) {
		path := writeCatalog(t, "[[course")
		_, err := config.LoadCatalogConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.LoadCatalogConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
	})
}
