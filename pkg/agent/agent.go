package agent

import (
	"context"
	"sort"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/service/similarity"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// NoSimilarEnrollmentsText is the fixed fallback when no similar users
// with course enrollments exist. Callers compare against it, so the
// wording is part of the contract.
const NoSimilarEnrollmentsText = "No similar users who enrolled for IMPEL courses found."

// generateText runs one prompt through a fresh LLM session and returns
// the trimmed response text
func generateText(ctx context.Context, llmClient gollem.LLMClient, prompt string) (string, error) {
	session, err := llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 || strings.TrimSpace(resp.Texts[0]) == "" {
		return "", goerr.New("LLM returned empty response")
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}

// enrolledCoursesText builds the similar-courses list shared by the
// database and collaborative agents. Lookup failures degrade to the
// fixed fallback text: losing this side channel never fails a request.
func enrolledCoursesText(ctx context.Context, lister interface {
	ListEnrolledCourses(ctx context.Context, userIDs []types.UserID) ([]string, error)
}, similarUsers []*model.SimilarUser) string {
	if len(similarUsers) == 0 {
		return NoSimilarEnrollmentsText
	}

	userIDs := make([]types.UserID, 0, len(similarUsers))
	for _, u := range similarUsers {
		userIDs = append(userIDs, u.UserID)
	}

	courses, err := lister.ListEnrolledCourses(ctx, userIDs)
	if err != nil {
		logging.From(ctx).Warn("failed to list enrolled courses for similar users",
			"error", err.Error())
		return NoSimilarEnrollmentsText
	}
	if len(courses) == 0 {
		return NoSimilarEnrollmentsText
	}

	sort.Strings(courses)
	lines := make([]string, 0, len(courses))
	for _, name := range courses {
		lines = append(lines, "- "+name)
	}
	return strings.Join(lines, "\n")
}

// searchSimilar wraps the similarity engine call so both agents share
// the default ranking size
func searchSimilar(ctx context.Context, engine *similarity.Service, userVector []float32) []*model.SimilarUser {
	return engine.SearchSimilarUsers(ctx, userVector, similarity.DefaultTopN)
}
