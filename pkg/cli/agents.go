package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"
)

func agentsCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "agents",
		Usage: "List registered agents",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			// Listing should not require model credentials.
			cfg.demo = true

			registry, err := cfg.newRegistry(ctx)
			if err != nil {
				return err
			}

			agents := registry.List()
			names := make([]string, 0, len(agents))
			for name := range agents {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(c.Root().Writer, "%-22s %s\n", name, agents[name])
			}
			return nil
		},
	}
}
