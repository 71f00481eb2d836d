package usecase

import (
	"context"
	"time"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/utils/errutil"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// workflowState threads the accumulated request data through the three
// stages. Fields are only ever appended as stages complete; earlier
// fields are never rewritten.
type workflowState struct {
	input  *model.QueryInput
	intent types.Intent

	// set by collectContext
	userVector []float32

	// set by runAgent
	result *model.AgentResult
}

// stage is one step of a compiled workflow
type stage func(ctx context.Context, state *workflowState) error

// workflow is a fixed three-stage pipeline. Branching happens once, at
// compile time based on intent; within a workflow the stages always run
// in order and stop at the first error.
type workflow struct {
	intent types.Intent
	stages []stage
}

// compileWorkflow builds the collect → execute → persist pipeline for
// the given agent
func (uc *UseCases) compileWorkflow(intent types.Intent, agent interfaces.Agent) *workflow {
	return &workflow{
		intent: intent,
		stages: []stage{
			uc.collectContext,
			uc.runAgent(agent),
			uc.persistResult,
		},
	}
}

// run executes the pipeline over a fresh state and returns the final state
func (w *workflow) run(ctx context.Context, input *model.QueryInput) (*workflowState, error) {
	state := &workflowState{input: input, intent: w.intent}
	for _, s := range w.stages {
		if err := s(ctx, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// collectContext validates the request fields and generates the user
// vector. Every missing field is reported in one error, not just the
// first.
func (uc *UseCases) collectContext(ctx context.Context, state *workflowState) error {
	if missing := state.input.MissingFields(); len(missing) > 0 {
		return goerr.Wrap(ErrInvalidRequest, "missing required fields", goerr.V("fields", missing))
	}

	vector, err := uc.engine.Vectorize(ctx, state.input.Profile, state.input.Query)
	if err != nil {
		return goerr.Wrap(ErrVectorGeneration, "failed to vectorize user profile",
			goerr.V("cause", err.Error()))
	}
	if len(vector) == 0 {
		return goerr.Wrap(ErrVectorGeneration, "empty user vector")
	}

	state.userVector = vector
	return nil
}

// runAgent delegates to the selected agent and enforces its output
// contract. A malformed result is a programming error in the agent and
// always fatal.
func (uc *UseCases) runAgent(agent interfaces.Agent) stage {
	return func(ctx context.Context, state *workflowState) error {
		result, err := agent.Execute(ctx, state.input, state.userVector)
		if err != nil {
			return goerr.Wrap(err, "agent execution failed", goerr.V("intent", state.intent))
		}

		if err := result.Validate(); err != nil {
			return goerr.Wrap(ErrAgentContract, "invalid agent result",
				goerr.V("intent", state.intent), goerr.V("cause", err.Error()))
		}

		state.result = result
		return nil
	}
}

// persistResult stores the completed interaction. A write failure is
// logged and swallowed: the generated response has independent value,
// and losing one training signal is an acceptable degradation.
func (uc *UseCases) persistResult(ctx context.Context, state *workflowState) error {
	interaction := &model.Interaction{
		UserID:    state.input.UserID,
		Profile:   state.input.Profile,
		Query:     state.input.Query,
		Response:  state.result.Response,
		Embedding: state.result.UserVector,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.repo.Interaction().Put(ctx, interaction); err != nil {
		errutil.Handle(ctx, goerr.Wrap(ErrStoreWrite, "failed to persist interaction",
			goerr.V("userID", state.input.UserID), goerr.V("cause", err.Error())),
			"interaction persistence failed, returning response anyway")
		return nil
	}

	logging.From(ctx).Debug("interaction persisted",
		"user_id", state.input.UserID, "intent", state.intent)
	return nil
}
