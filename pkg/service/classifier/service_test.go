package classifier_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/service/classifier"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"recommendation"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func replyWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the parsed model output", func(t *testing.T) {
		cases := map[string]types.Intent{
			"database_lookup":    types.IntentDatabaseLookup,
			"recommendation":     types.IntentRecommendation,
			`"content_analysis"`: types.IntentContentAnalysis,
			"  Irrelevant  \n":   types.IntentIrrelevant,
			"'RECOMMENDATION'":   types.IntentRecommendation,
		}

		for raw, want := range cases {
			svc, err := classifier.New(replyWith(raw))
			gt.NoError(t, err).Required()

			intent, err := svc.Classify(ctx, "show me all courses")
			gt.NoError(t, err).Required()
			gt.Value(t, intent).Equal(want)
		}
	})

	t.Run("wraps the query verbatim in the prompt", func(t *testing.T) {
		var gotPrompt string
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						if len(input) > 0 {
							if text, ok := input[0].(gollem.Text); ok {
								gotPrompt = string(text)
							}
						}
						return &gollem.Response{Texts: []string{"irrelevant"}}, nil
					},
				}, nil
			},
		}
		svc, err := classifier.New(llm)
		gt.NoError(t, err).Required()

		_, err = svc.Classify(ctx, "what's the weather today?")
		gt.NoError(t, err).Required()
		gt.Value(t, gotPrompt).Equal(`User query: "what's the weather today?"`)
	})

	t.Run("empty query is rejected before the provider call", func(t *testing.T) {
		called := false
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				called = true
				return &mockLLMSession{}, nil
			},
		}
		svc, err := classifier.New(llm)
		gt.NoError(t, err).Required()

		_, err = svc.Classify(ctx, "   \t ")
		gt.Error(t, err)
		gt.Value(t, errors.Is(err, classifier.ErrEmptyQuery)).Equal(true)
		gt.Value(t, called).Equal(false)
	})

	t.Run("unrecognized output falls back to rules", func(t *testing.T) {
		svc, err := classifier.New(replyWith("I think this is probably a recommendation query."))
		gt.NoError(t, err).Required()

		intent, err := svc.Classify(ctx, "list all modules in the ML course")
		gt.NoError(t, err).Required()
		gt.Value(t, intent).Equal(types.IntentDatabaseLookup)
	})

	t.Run("garbage output without keywords defaults to recommendation", func(t *testing.T) {
		svc, err := classifier.New(replyWith("%$#!"))
		gt.NoError(t, err).Required()

		intent, err := svc.Classify(ctx, "I want to grow my career")
		gt.NoError(t, err).Required()
		gt.Value(t, intent).Equal(types.IntentRecommendation)
	})

	t.Run("provider failure is an error", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, goerr.New("provider down")
					},
				}, nil
			},
		}
		svc, err := classifier.New(llm)
		gt.NoError(t, err).Required()

		_, err = svc.Classify(ctx, "show me all courses")
		gt.Error(t, err)
		gt.Value(t, strings.Contains(err.Error(), "failed to classify query")).Equal(true)
	})
}

func TestRuleClassifier(t *testing.T) {
	ctx := context.Background()
	rc := classifier.NewRuleClassifier()

	t.Run("lookup keywords", func(t *testing.T) {
		for _, q := range []string{
			"List the modules in Data Engineering",
			"what courses do you offer?",
			"Show me the courses available",
		} {
			intent, err := rc.Classify(ctx, q)
			gt.NoError(t, err).Required()
			gt.Value(t, intent).Equal(types.IntentDatabaseLookup)
		}
	})

	t.Run("content keywords", func(t *testing.T) {
		for _, q := range []string{
			"what skills are trending right now?",
			"analyze my resume for course suggestions",
			"how is the job market for ML engineers?",
		} {
			intent, err := rc.Classify(ctx, q)
			gt.NoError(t, err).Required()
			gt.Value(t, intent).Equal(types.IntentContentAnalysis)
		}
	})

	t.Run("defaults to recommendation", func(t *testing.T) {
		intent, err := rc.Classify(ctx, "how do I become a data scientist?")
		gt.NoError(t, err).Required()
		gt.Value(t, intent).Equal(types.IntentRecommendation)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		_, err := rc.Classify(ctx, "")
		gt.Error(t, err)
		gt.Value(t, errors.Is(err, classifier.ErrEmptyQuery)).Equal(true)
	})
}
