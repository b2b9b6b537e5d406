package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/urfave/cli/v3"
)

func sessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Inspect and manage stored sessions",
		Commands: []*cli.Command{
			sessionsListCommand(),
			sessionsClearCommand(),
		},
	}
}

func sessionsListCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List live sessions",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			store, repo, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			sessions, err := store.List(ctx)
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Fprintln(c.Root().Writer, "no sessions")
				return nil
			}

			for _, sess := range sessions {
				fmt.Fprintf(c.Root().Writer, "%s  last active %s  turns %d  plan %v\n",
					sess.ID,
					sess.LastActive.Format("2006-01-02 15:04:05"),
					len(sess.ChatHistory),
					sess.Itinerary != nil)
			}
			return nil
		},
	}
}

func sessionsClearCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:      "clear",
		Usage:     "Remove a session",
		ArgsUsage: "<session-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("session-id argument is required")
			}

			store, repo, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			id := model.SessionID(c.Args().First())
			if err := store.Clear(ctx, id); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "session %s cleared\n", id)
			return nil
		},
	}
}
