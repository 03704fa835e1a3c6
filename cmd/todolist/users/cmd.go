package users

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/nhihnguyen/to-do-calendar/auth"
	"github.com/nhihnguyen/to-do-calendar/internal/cmdflags"
	"github.com/nhihnguyen/to-do-calendar/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	dataDir := "./data"
	var st *store.Store
	return &cli.Command{
		Name:  "users",
		Usage: "Manage user accounts directly against the database",
		Flags: []cli.Flag{
			cmdflags.DataDir(&dataDir),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			st, err = store.Open(ctx.Context, dataDir)
			return err
		},
		After: func(ctx *cli.Context) error {
			if st == nil {
				return nil
			}
			return st.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&st),
		},
	}
}

func registerCmd(st **store.Store) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			users := auth.NewUsers(*st)
			tokens := auth.NewTokenStore(*st, auth.DefaultTokenTTL)
			_, _, err := auth.Register(ctx.Context, users, tokens, auth.RegisterInput{
				Username:        username,
				Password:        password,
				ConfirmPassword: password,
			})
			return err
		},
	}
}
