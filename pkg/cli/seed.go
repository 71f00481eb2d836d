package cli

import (
	"context"

	"github.com/impel-lab/compass/pkg/cli/config"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var catalogPath string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Catalog TOML file to load (required)",
			Required:    true,
			Sources:     cli.EnvVars("COMPASS_CATALOG"),
			Destination: &catalogPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load the course catalog into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadCatalogConfiguration(catalogPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
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

			courses := cfg.ToCourses()
			for _, course := range courses {
				if err := repo.Course().Put(ctx, course); err != nil {
					return goerr.Wrap(err, "failed to store course", goerr.V("name", course.Name))
				}
			}

			logging.Default().Info("Catalog loaded",
				"path", catalogPath,
				"courses", len(courses))
			return nil
		},
	}
}
