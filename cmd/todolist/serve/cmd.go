package serve

import (
	"github.com/nhihnguyen/to-do-calendar/auth"
	authapi "github.com/nhihnguyen/to-do-calendar/auth/api"
	"github.com/nhihnguyen/to-do-calendar/internal/cmdflags"
	"github.com/nhihnguyen/to-do-calendar/internal/httpserver"
	"github.com/nhihnguyen/to-do-calendar/store"
	"github.com/nhihnguyen/to-do-calendar/tasks"
	"github.com/nhihnguyen/to-do-calendar/web"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:8080"
	dataDir := "./data"
	tokenTTL := auth.DefaultTokenTTL
	var insecureCookie bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the to-do list web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind the web server",
				EnvVars:     []string{"TODOLIST_BIND"},
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.DataDir(&dataDir),
			cmdflags.TokenTTL(&tokenTTL),
			&cli.BoolFlag{
				Name:        "insecure-cookie",
				Usage:       "Allow the session cookie over plain HTTP (local development only)",
				EnvVars:     []string{"TODOLIST_INSECURE_COOKIE"},
				Destination: &insecureCookie,
			},
		},
		Action: func(ctx *cli.Context) error {
			st, err := store.Open(ctx.Context, dataDir)
			if err != nil {
				return err
			}
			defer st.Close()
			tokens := auth.CachedTokens(auth.NewTokenStore(st, tokenTTL), tokenTTL)
			app := web.NewApp(
				auth.NewUsers(st),
				tokens,
				tasks.New(st),
				authapi.NewRealm(tokens, tokenTTL, insecureCookie),
			)
			return httpserver.Serve(ctx.Context, bindAddr, app.Handler())
		},
	}
}
