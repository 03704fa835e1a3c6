package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nhihnguyen/to-do-calendar/cmd/todolist/serve"
	"github.com/nhihnguyen/to-do-calendar/cmd/todolist/users"
	"github.com/nhihnguyen/to-do-calendar/internal/logutil"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "todolist",
		Usage: "Multi-user to-do list server",
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	log := logutil.NewRoot(os.Getenv("TODOLIST_DEBUG") != "")
	err := app.RunContext(logutil.WithLogger(ctx, log), os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
