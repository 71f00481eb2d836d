package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/impel-lab/compass/pkg/agent"
	"github.com/impel-lab/compass/pkg/cli/config"
	httpctrl "github.com/impel-lab/compass/pkg/controller/http"
	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/service/classifier"
	"github.com/impel-lab/compass/pkg/service/filestore"
	"github.com/impel-lab/compass/pkg/service/papersearch"
	"github.com/impel-lab/compass/pkg/service/similarity"
	"github.com/impel-lab/compass/pkg/service/websearch"
	"github.com/impel-lab/compass/pkg/service/worker"
	"github.com/impel-lab/compass/pkg/usecase"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var refreshInterval time.Duration
	var tavilyAPIKey string
	var papersDir string
	var uploadsBackend string
	var uploadsDir string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("COMPASS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "catalog-refresh-interval",
			Usage:       "Interval for refreshing the cached course catalog",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("COMPASS_CATALOG_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
		&cli.StringFlag{
			Name:        "tavily-api-key",
			Usage:       "Tavily API key for web search (content analysis search is skipped when empty)",
			Sources:     cli.EnvVars("COMPASS_TAVILY_API_KEY"),
			Destination: &tavilyAPIKey,
		},
		&cli.StringFlag{
			Name:        "papers-dir",
			Usage:       "Directory of research paper text files (paper recommendations are skipped when empty)",
			Sources:     cli.EnvVars("COMPASS_PAPERS_DIR"),
			Destination: &papersDir,
		},
		&cli.StringFlag{
			Name:        "uploads-backend",
			Usage:       "Storage backend for uploaded files (gcs, local, or none)",
			Value:       "none",
			Sources:     cli.EnvVars("COMPASS_UPLOADS_BACKEND"),
			Destination: &uploadsBackend,
		},
		&cli.StringFlag{
			Name:        "uploads-dir",
			Usage:       "Base directory for the local uploads backend",
			Sources:     cli.EnvVars("COMPASS_UPLOADS_DIR"),
			Destination: &uploadsDir,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

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

			// Optional services for the content analysis agent
			var contentOpts []agent.ContentOption
			if tavilyAPIKey != "" {
				searchClient, err := websearch.New(tavilyAPIKey)
				if err != nil {
					return goerr.Wrap(err, "failed to create web search client")
				}
				contentOpts = append(contentOpts, agent.WithWebSearch(searchClient))
				logging.Default().Info("Web search enabled for content analysis")
			} else {
				logging.Default().Info("Tavily API key not configured, web search disabled")
			}

			if papersDir != "" {
				papers, err := papersearch.New(ctx, llmClient, papersDir)
				if err != nil {
					return goerr.Wrap(err, "failed to load paper corpus")
				}
				contentOpts = append(contentOpts, agent.WithPaperSearch(papers))
				logging.Default().Info("Research paper recommendations enabled", "dir", papersDir)
			}

			fileStore, err := configureFileStore(ctx, uploadsBackend, uploadsDir)
			if err != nil {
				return err
			}
			if fileStore != nil {
				contentOpts = append(contentOpts, agent.WithFileStore(fileStore))
			}

			dbAgent, err := agent.NewDatabase(llmClient, catalogSvc, engine, repo.Interaction())
			if err != nil {
				return goerr.Wrap(err, "failed to create database lookup agent")
			}
			recAgent, err := agent.NewCollaborative(llmClient, catalogSvc, engine, repo.Interaction())
			if err != nil {
				return goerr.Wrap(err, "failed to create recommendation agent")
			}
			contentAgent, err := agent.NewContent(llmClient, catalogSvc, contentOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create content analysis agent")
			}

			uc := usecase.New(repo, cls, engine,
				usecase.WithAgent(types.IntentDatabaseLookup, dbAgent),
				usecase.WithAgent(types.IntentRecommendation, recAgent),
				usecase.WithAgent(types.IntentContentAnalysis, contentAgent),
			)

			refreshWorker := worker.NewCatalogRefreshWorker(catalogSvc, refreshInterval)
			if err := refreshWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start catalog refresh worker")
			}
			defer refreshWorker.Stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var g errgroup.Group
			g.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}

func configureFileStore(ctx context.Context, backend, dir string) (interfaces.FileStore, error) {
	switch backend {
	case "gcs":
		store, err := filestore.NewGCS(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GCS file store")
		}
		logging.Default().Info("GCS file store enabled")
		return store, nil

	case "local":
		if dir == "" {
			return nil, goerr.New("uploads-dir is required when using local uploads backend")
		}
		store, err := filestore.NewLocal(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create local file store")
		}
		logging.Default().Info("Local file store enabled", "dir", dir)
		return store, nil

	case "none":
		return nil, nil

	default:
		return nil, goerr.New("invalid uploads backend", goerr.V("backend", backend))
	}
}
