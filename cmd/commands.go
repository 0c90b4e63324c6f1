package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/davidbz/pricematrix/internal/billing"
	"github.com/davidbz/pricematrix/internal/catalog"
	"github.com/davidbz/pricematrix/internal/catalog/awspricing"
	"github.com/davidbz/pricematrix/internal/config"
	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/http"
	"github.com/davidbz/pricematrix/internal/matrixio"
	"github.com/davidbz/pricematrix/internal/observability"
	"github.com/davidbz/pricematrix/internal/plan"
)

const (
	sourceFile = "file"
	sourceAWS  = "aws"

	shutdownTimeout = 10 * time.Second
)

func mapCommand() *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "Resolve a plan against a price catalog and write the matrix as JSON",
		ArgsUsage: "<catalog> <plan> <out>\n\n" +
			"   <catalog> is a file or glob of bulk price-list CSVs. With --source aws it is\n" +
			"   omitted and the Price List API is queried instead.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: sourceFile,
				Usage: "Catalog source (file, aws)",
			},
			&cli.StringFlag{
				Name:  "service-code",
				Usage: "Price List service code for --source aws (defaults to AWS_PRICING_SERVICE_CODE)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Also save the matrix in the matrix store under this name",
			},
			&cli.IntFlag{
				Name:  "skip-lines",
				Value: -1,
				Usage: "Preamble lines before the CSV header (defaults to CATALOG_SKIP_LINES)",
			},
		},
		Action: runMap,
	}
}

func runMap(c *cli.Context) error {
	var catalogArg, planPath, outPath string

	switch c.String("source") {
	case sourceFile:
		if c.NArg() != 3 {
			return errors.New("expected arguments: <catalog> <plan> <out>")
		}
		catalogArg, planPath, outPath = c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
	case sourceAWS:
		if c.NArg() != 2 {
			return errors.New("expected arguments with --source aws: <plan> <out>")
		}
		planPath, outPath = c.Args().Get(0), c.Args().Get(1)
	default:
		return fmt.Errorf("unknown source %q (expected %s or %s)", c.String("source"), sourceFile, sourceAWS)
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(
		cfg *config.Config,
		service *domain.MatrixService,
	) error {
		ctx := runContext(c.Context, planPath)
		logger := observability.FromContext(ctx)

		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}

		var source domain.RecordSource
		if catalogArg != "" {
			skipLines := cfg.Catalog.SkipLines
			if c.Int("skip-lines") >= 0 {
				skipLines = c.Int("skip-lines")
			}
			source = catalog.NewFileSource(catalogArg, skipLines)
		} else {
			source, err = newAWSSource(ctx, cfg.AWS, c.String("service-code"), p)
			if err != nil {
				return err
			}
		}

		matrix, err := service.Build(ctx, p, source)
		if err != nil {
			return err
		}

		if err := matrixio.WriteFile(outPath, matrix); err != nil {
			return err
		}
		logger.Info("matrix written",
			observability.String("path", outPath),
			observability.Int("entries", len(matrix)))

		if name := c.String("store"); name != "" {
			if err := service.Store(ctx, name, matrix); err != nil {
				return err
			}
		}
		return nil
	})
}

func newAWSSource(ctx context.Context, cfg awspricing.Config, serviceCode string, p *domain.Plan) (*awspricing.Source, error) {
	if serviceCode != "" {
		cfg.ServiceCode = serviceCode
	}

	client, err := awspricing.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return awspricing.NewSource(client, cfg.ServiceCode, p.PreConditions), nil
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:      "setup",
		Usage:     "Install a resolved matrix as the cost price of the plan's meter",
		ArgsUsage: "<plan> <matrix>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("expected arguments: <plan> <matrix>")
			}
			planPath, matrixPath := c.Args().Get(0), c.Args().Get(1)

			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(publisher *billing.Publisher) error {
				ctx := runContext(c.Context, planPath)

				p, err := plan.Load(planPath)
				if err != nil {
					return err
				}
				matrix, err := matrixio.ReadFile(matrixPath)
				if err != nil {
					return err
				}

				result, err := publisher.Publish(ctx, p, matrix)
				if err != nil {
					return err
				}

				observability.FromContext(ctx).Info("billing setup complete",
					observability.String("product_item_id", result.ProductItem.ID),
					observability.String("price_id", result.PriceID))
				return nil
			})
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve stored matrices and resolve plans over HTTP",
		Action: func(c *cli.Context) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(server *http.Server) error {
				ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
		},
	}
}

// runContext tags a command run with a fresh run ID and the plan file name.
func runContext(ctx context.Context, planPath string) context.Context {
	ctx = observability.WithRunID(ctx, observability.GenerateRunID())
	return observability.WithPlan(ctx, planPath)
}
