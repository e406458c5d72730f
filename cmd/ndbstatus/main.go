package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ntnxnam/ndb-weekly-status/internal/app"
	"github.com/ntnxnam/ndb-weekly-status/internal/config"
	"github.com/ntnxnam/ndb-weekly-status/internal/logging"
	"github.com/ntnxnam/ndb-weekly-status/internal/usecase"
)

func main() {
	cliApp := &cli.App{
		Name:  "ndbstatus",
		Usage: "aggregate tracker and wiki data into a weekly status report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "jql",
				Usage: "override the configured tracker query",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "generate one report and print it",
				Action: runReport,
			},
			{
				Name:   "watch",
				Usage:  "generate reports on the configured interval",
				Action: runWatch,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp(c *cli.Context) (*app.Application, error) {
	cfg := config.Load()
	if jql := c.String("jql"); jql != "" {
		cfg.Jira.JQL = jql
	}

	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func runReport(c *cli.Context) error {
	application, err := buildApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	rows, err := application.RunOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Print(usecase.BuildDigest(rows, time.Now()))
	return nil
}

func runWatch(c *cli.Context) error {
	application, err := buildApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	return application.Watch(ctx)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
