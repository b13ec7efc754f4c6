package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/opensats/cardauth/derive"
)

// AddressCommand creates the address command
func AddressCommand() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "Re-derive the expected deposit address from a chain code and master key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "chain-code",
				Usage:    "Slot chain code (32 bytes hex)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "master-key",
				Usage:    "Slot master key: 33-byte public or 32-byte private key (hex)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "testnet",
				Usage: "Render a test network address",
			},
		},
		Action: runAddressCommand,
	}
}

func runAddressCommand(ctx context.Context, cmd *cli.Command) error {
	chainCode, err := hex.DecodeString(cmd.String("chain-code"))
	if err != nil {
		return fmt.Errorf("invalid chain code hex: %w", err)
	}
	masterKey, err := hex.DecodeString(cmd.String("master-key"))
	if err != nil {
		return fmt.Errorf("invalid master key hex: %w", err)
	}

	addr, pubkey, err := derive.FirstChild(chainCode, masterKey, cmd.Bool("testnet"))
	if err != nil {
		return err
	}

	jsonOutput, err := json.MarshalIndent(map[string]any{
		"address": addr,
		"pubkey":  hex.EncodeToString(pubkey),
		"path":    derive.FormatPath([]uint32{0}),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonOutput))
	return nil
}
