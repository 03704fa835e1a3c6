// Package cmdflags holds the CLI flags shared by more than one command.
package cmdflags

import (
	"time"

	"github.com/urfave/cli/v2"
)

func DataDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "data-dir",
		Aliases:     []string{"d"},
		Usage:       "Directory that holds the SQLite database",
		EnvVars:     []string{"TODOLIST_DATA_DIR"},
		Destination: out,
		Value:       *out,
	}
}

func TokenTTL(out *time.Duration) cli.Flag {
	return &cli.DurationFlag{
		Name:        "token-ttl",
		Usage:       "How long a session token stays valid after it is minted",
		EnvVars:     []string{"TODOLIST_TOKEN_TTL"},
		Destination: out,
		Value:       *out,
	}
}
