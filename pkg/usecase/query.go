package usecase

import (
	"context"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/utils/errutil"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Fixed user-facing messages. These and the agents' responses are the
// only strings that ever cross the boundary to the caller; the internal
// error taxonomy stays internal.
const (
	// IrrelevantQueryText is returned for queries outside the course domain
	IrrelevantQueryText = "Sorry, your query seems unrelated to our course offerings. " +
		"Please ask about IMPEL courses or Data Science learning goals."

	// UnrecognizedQueryText is returned when the classifier yields the
	// catch-all sentinel
	UnrecognizedQueryText = "Sorry, I couldn't understand your request. Please try again."

	// GenericErrorText is the single message covering every internal failure
	GenericErrorText = "An error occurred while processing your request. Please try again later."
)

// HandleQuery is the top-level entry point: it validates the request,
// classifies intent, runs the matching workflow, and folds every
// internal failure into one of the fixed user-facing outcomes. The
// returned error is non-nil only for invalid requests, where the caller
// surfaces the field names directly.
func (uc *UseCases) HandleQuery(ctx context.Context, input *model.QueryInput) (*model.Answer, error) {
	logger := logging.From(ctx)

	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, "invalid query request",
			goerr.V("userID", input.UserID), goerr.V("cause", err.Error()))
	}

	intent, err := uc.classifier.Classify(ctx, input.Query)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(ErrClassification, "classification failed",
			goerr.V("cause", err.Error())), "intent classification failed")
		return &model.Answer{Response: GenericErrorText}, nil
	}

	logger.Info("query classified", "user_id", input.UserID, "intent", intent)

	switch intent {
	case types.IntentIrrelevant:
		// No workflow runs and nothing is persisted for rejections.
		return &model.Answer{Response: IrrelevantQueryText}, nil

	case types.IntentDatabaseLookup, types.IntentRecommendation, types.IntentContentAnalysis:
		agent, ok := uc.agents[intent]
		if !ok {
			errutil.Handle(ctx, goerr.New("no agent registered for intent",
				goerr.V("intent", intent)), "agent routing failed")
			return &model.Answer{Response: GenericErrorText}, nil
		}

		state, err := uc.compileWorkflow(intent, agent).run(ctx, input)
		if err != nil {
			errutil.Handle(ctx, err, "workflow execution failed")
			return &model.Answer{Response: GenericErrorText}, nil
		}

		similarCourses := state.result.SimilarCourses
		return &model.Answer{
			Response:       state.result.Response,
			SimilarCourses: &similarCourses,
		}, nil

	default:
		// Classifier contract guarantees one of the four intents; this
		// is the catch-all for a broken implementation.
		return &model.Answer{Response: UnrecognizedQueryText}, nil
	}
}
