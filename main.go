package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/opensats/cardauth/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "cardauth",
		Usage: "Authenticate NFC bearer-key cards against the factory trust chain",
		Commands: []*cli.Command{
			cmd.VerifyCommand(),
			cmd.AddressCommand(),
			cmd.PathCommand(),
			cmd.IdentCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
