package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/agent"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/usecase/support"
	"github.com/urfave/cli/v3"
)

func supportCommand() *cli.Command {
	var (
		cfg       config
		sessionID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s"},
			Usage:       "Session ID to converse in (a new one is created if omitted)",
			Sources:     cli.EnvVars("TRIPWEAVER_SESSION_ID"),
			Destination: &sessionID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:  "support",
		Usage: "Interactive trip support conversation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			registry, err := cfg.newRegistry(ctx)
			if err != nil {
				return err
			}

			store, repo, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			id := model.SessionID(sessionID)
			if id == "" {
				id = model.NewSessionID()
				fmt.Fprintf(c.Root().Writer, "Session: %s\n", id)
			}

			uc := support.New(registry, store)

			rl, err := readline.New("you> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open terminal")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Trip support ready. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				message := strings.TrimSpace(line)
				if message == "" {
					continue
				}
				if message == "exit" || message == "quit" {
					break
				}

				reply, err := uc.Respond(ctx, id, message)
				if err != nil {
					return err
				}

				fmt.Fprintf(c.Root().Writer, "%s\n", reply.Text)
				if reply.Action != agent.ActionInformationProvided {
					fmt.Fprintf(c.Root().Writer, "[%s]\n", reply.Action)
				}
			}

			fmt.Fprintf(c.Root().Writer, "\nSupport session ended\n")
			return nil
		},
	}
}
