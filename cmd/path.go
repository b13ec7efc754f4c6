package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/opensats/cardauth/derive"
)

// PathCommand creates the path command
func PathCommand() *cli.Command {
	return &cli.Command{
		Name:      "path",
		Usage:     "Parse and normalize a BIP-32 derivation path",
		ArgsUsage: "<path>",
		Action:    runPathCommand,
	}
}

func runPathCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one path argument")
	}

	parsed, err := derive.ParsePath(cmd.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(derive.FormatPath(parsed))
	return nil
}
