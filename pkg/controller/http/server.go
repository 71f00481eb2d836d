package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/usecase"
	"github.com/impel-lab/compass/pkg/utils/async"
	"github.com/impel-lab/compass/pkg/utils/errutil"
	"github.com/impel-lab/compass/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", queryHandler(uc))
		r.Post("/enroll", enrollHandler(uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

type queryRequest struct {
	UserID        string   `json:"user_id"`
	Education     string   `json:"education"`
	AgeGroup      string   `json:"age_group"`
	Profession    string   `json:"profession"`
	Query         string   `json:"query"`
	UploadedFiles []string `json:"uploaded_files,omitempty"`
}

type queryResponse struct {
	Response       string  `json:"response"`
	SimilarCourses *string `json:"similar_courses,omitempty"`
}

// queryHandler decodes a course query request, runs it through the
// orchestrator, and writes the answer. Validation failures map to 400
// with the missing field names; everything else is already folded into
// a fixed answer by the use case layer.
func queryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode query request"), http.StatusBadRequest)
			return
		}

		input := &model.QueryInput{
			UserID: types.UserID(req.UserID),
			Profile: model.Profile{
				Education:  types.Education(req.Education),
				AgeGroup:   types.AgeGroup(req.AgeGroup),
				Profession: types.Profession(req.Profession),
			},
			Query:         req.Query,
			UploadedFiles: req.UploadedFiles,
		}

		answer, err := uc.HandleQuery(ctx, input)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, usecase.ErrInvalidRequest) {
				status = http.StatusBadRequest
			}
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}

		resp := queryResponse{
			Response:       answer.Response,
			SimilarCourses: answer.SimilarCourses,
		}
		data, err := json.Marshal(resp)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal query response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(ctx, w, data)
	}
}

type enrollRequest struct {
	UserID string `json:"user_id"`
	Course string `json:"course"`
}

// enrollHandler acknowledges the enrollment immediately and records it in
// the background. Enrollments are side signals for later recommendations;
// losing one is acceptable, blocking the caller on the write is not.
func enrollHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req enrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode enrollment request"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.Course == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("user_id and course are required"), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusAccepted)

		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.RecordEnrollment(ctx, types.UserID(req.UserID), req.Course)
		})
	}
}
