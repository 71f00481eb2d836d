package model_test

import (
	"strings"
	"testing"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func validProfile() model.Profile {
	return model.Profile{
		Education:  types.EducationGraduate,
		AgeGroup:   types.AgeGroup26To40,
		Profession: types.ProfessionProfessional,
	}
}

func TestProfileDescribe(t *testing.T) {
	text := validProfile().Describe("how do I become a data scientist?")
	gt.Value(t, text).Equal(
		"User with Graduate education, aged 26-40, working at Professional level. " +
			"Recently asked: 'how do I become a data scientist?'")
}

func TestProfileMissingFields(t *testing.T) {
	t.Run("complete profile has none", func(t *testing.T) {
		gt.Array(t, validProfile().MissingFields()).Length(0)
	})

	t.Run("all empty fields are reported together", func(t *testing.T) {
		missing := model.Profile{}.MissingFields()
		gt.Array(t, missing).Length(3)
		gt.Value(t, missing).Equal([]string{"education", "age_group", "profession"})
	})

	t.Run("partial profile reports only the gaps", func(t *testing.T) {
		p := model.Profile{Education: types.EducationDoctorate}
		gt.Value(t, p.MissingFields()).Equal([]string{"age_group", "profession"})
	})
}

func TestQueryInputValidate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		input := &model.QueryInput{
			UserID:  "user-1",
			Profile: validProfile(),
			Query:   "list all courses",
		}
		gt.NoError(t, input.Validate())
	})

	t.Run("every missing field appears in one error", func(t *testing.T) {
		input := &model.QueryInput{}
		gt.Value(t, input.MissingFields()).Equal(
			[]string{"user_id", "education", "age_group", "profession", "query"})
		gt.Error(t, input.Validate())
	})

	t.Run("whitespace query counts as missing", func(t *testing.T) {
		input := &model.QueryInput{
			UserID:  "user-1",
			Profile: validProfile(),
			Query:   "   \n\t",
		}
		gt.Value(t, input.MissingFields()).Equal([]string{"query"})
	})
}

func TestAgentResultValidate(t *testing.T) {
	t.Run("complete result passes", func(t *testing.T) {
		r := &model.AgentResult{
			Response:   "here are your courses",
			UserVector: []float32{0.1, 0.2},
		}
		gt.NoError(t, r.Validate())
	})

	t.Run("empty similar courses is allowed", func(t *testing.T) {
		r := &model.AgentResult{
			Response:       "analysis",
			SimilarCourses: "",
			UserVector:     []float32{0.5},
		}
		gt.NoError(t, r.Validate())
	})

	t.Run("missing response and vector are both reported", func(t *testing.T) {
		r := &model.AgentResult{}
		err := r.Validate()
		gt.Error(t, err)
		gt.Value(t, strings.Contains(err.Error(), "missing required fields")).Equal(true)
	})

	t.Run("nil result is rejected", func(t *testing.T) {
		var r *model.AgentResult
		gt.Error(t, r.Validate())
	})
}

func TestFormatCatalog(t *testing.T) {
	t.Run("renders courses with modules", func(t *testing.T) {
		courses := []*model.Course{
			{
				Name: "Data Engineering",
				Modules: []model.Module{
					{Name: "Pipelines", Summary: "Building batch and stream pipelines"},
					{Name: "Warehousing", Summary: "Modeling analytical stores"},
				},
			},
			{
				Name:    "ML Basics",
				Modules: []model.Module{{Name: "Regression", Summary: "Linear models"}},
			},
		}

		text := model.FormatCatalog(courses)
		gt.Value(t, strings.Contains(text, "**Course: Data Engineering**")).Equal(true)
		gt.Value(t, strings.Contains(text, "- Pipelines: Building batch and stream pipelines")).Equal(true)
		gt.Value(t, strings.Contains(text, "**Course: ML Basics**")).Equal(true)
		gt.Value(t, strings.HasSuffix(text, "- Regression: Linear models")).Equal(true)
	})

	t.Run("empty catalog renders empty", func(t *testing.T) {
		gt.Value(t, model.FormatCatalog(nil)).Equal("")
	})
}
