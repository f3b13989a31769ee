package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/masomo-lms/apps/shared"
	"github.com/trezcool/masomo-lms/core"
)

func main() {
	conf := core.NewConfig()

	logger, flush, err := shared.NewLogger(conf, "admin")
	if err != nil {
		log.Fatal(err)
	}

	app, err := shared.New(context.Background(), conf, logger)
	if err != nil {
		flush()
		log.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		medium: app.Medium,
		store:  app.Store,
		sess:   app.Session,
		usrSvc: app.UserSvc,
		out:    os.Stdout,
	}
	code := 0
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		code = 1
	}

	if err = app.Close(); err != nil {
		logger.Error("closing storage", err)
		code = 1
	}
	flush()
	os.Exit(code)
}
