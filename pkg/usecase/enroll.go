package usecase

import (
	"context"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// RecordEnrollment marks a user as enrolled in a course. Enrollments feed
// the similar-courses side channel of later queries.
func (uc *UseCases) RecordEnrollment(ctx context.Context, userID types.UserID, courseName string) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidRequest, "invalid enrollment", goerr.V("cause", err.Error()))
	}
	if strings.TrimSpace(courseName) == "" {
		return goerr.Wrap(ErrInvalidRequest, "course name is required")
	}

	if err := uc.repo.Interaction().Enroll(ctx, userID, courseName); err != nil {
		return goerr.Wrap(ErrStoreWrite, "failed to record enrollment",
			goerr.V("userID", userID), goerr.V("course", courseName))
	}

	logging.From(ctx).Info("enrollment recorded", "user_id", userID, "course", courseName)
	return nil
}
