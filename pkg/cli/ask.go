package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/impel-lab/compass/pkg/agent"
	"github.com/impel-lab/compass/pkg/cli/config"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/service/classifier"
	"github.com/impel-lab/compass/pkg/service/similarity"
	"github.com/impel-lab/compass/pkg/usecase"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var userID string
	var education string
	var ageGroup string
	var profession string
	var catalogPath string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User identifier",
			Required:    true,
			Sources:     cli.EnvVars("COMPASS_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "education",
			Usage:       "Education level (High School, Undergraduate, Graduate, Doctorate)",
			Required:    true,
			Destination: &education,
		},
		&cli.StringFlag{
			Name:        "age-group",
			Usage:       "Age group (18-25, 26-40, 41-60, 60+)",
			Required:    true,
			Destination: &ageGroup,
		},
		&cli.StringFlag{
			Name:        "profession",
			Usage:       "Profession level (Student, Entry-Level, Professional, Executive)",
			Required:    true,
			Destination: &profession,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Catalog TOML file to load before querying (useful with the memory backend)",
			Sources:     cli.EnvVars("COMPASS_CATALOG"),
			Destination: &catalogPath,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Run a single query and print the answer",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query argument is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if catalogPath != "" {
				cfg, err := config.LoadCatalogConfiguration(catalogPath)
				if err != nil {
					return goerr.Wrap(err, "failed to load catalog")
				}
				for _, course := range cfg.ToCourses() {
					if err := repo.Course().Put(ctx, course); err != nil {
						return goerr.Wrap(err, "failed to store course", goerr.V("name", course.Name))
					}
				}
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			catalogSvc, err := catalog.New(repo.Course())
			if err != nil {
				return goerr.Wrap(err, "failed to create catalog service")
			}
			engine, err := similarity.New(llmClient, repo.Interaction())
			if err != nil {
				return goerr.Wrap(err, "failed to create similarity engine")
			}
			cls, err := classifier.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to create intent classifier")
			}

			dbAgent, err := agent.NewDatabase(llmClient, catalogSvc, engine, repo.Interaction())
			if err != nil {
				return goerr.Wrap(err, "failed to create database lookup agent")
			}
			recAgent, err := agent.NewCollaborative(llmClient, catalogSvc, engine, repo.Interaction())
			if err != nil {
				return goerr.Wrap(err, "failed to create recommendation agent")
			}
			contentAgent, err := agent.NewContent(llmClient, catalogSvc)
			if err != nil {
				return goerr.Wrap(err, "failed to create content analysis agent")
			}

			uc := usecase.New(repo, cls, engine,
				usecase.WithAgent(types.IntentDatabaseLookup, dbAgent),
				usecase.WithAgent(types.IntentRecommendation, recAgent),
				usecase.WithAgent(types.IntentContentAnalysis, contentAgent),
			)

			input := &model.QueryInput{
				UserID: types.UserID(userID),
				Profile: model.Profile{
					Education:  types.Education(education),
					AgeGroup:   types.AgeGroup(ageGroup),
					Profession: types.Profession(profession),
				},
				Query: query,
			}

			answer, err := uc.HandleQuery(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to handle query")
			}

			fmt.Fprintln(os.Stdout, answer.Response)
			if answer.SimilarCourses != nil && *answer.SimilarCourses != "" {
				fmt.Fprintln(os.Stdout)
				fmt.Fprintln(os.Stdout, *answer.SimilarCourses)
			}
			return nil
		},
	}
}
