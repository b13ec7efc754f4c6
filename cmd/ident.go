package cmd

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/opensats/cardauth/protocol"
)

// IdentCommand creates the ident command
func IdentCommand() *cli.Command {
	return &cli.Command{
		Name:      "ident",
		Usage:     "Render the human-readable fingerprint of a card public key",
		ArgsUsage: "<pubkey-hex>",
		Action:    runIdentCommand,
	}
}

func runIdentCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one public key argument")
	}

	pubkey, err := hex.DecodeString(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}

	ident, err := protocol.Ident(pubkey)
	if err != nil {
		return err
	}

	fmt.Println(ident)
	return nil
}
