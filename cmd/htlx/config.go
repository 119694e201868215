package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var cliConfig = cli.Command{
	Name:   "config",
	Usage:  "Print the local state of the htlx CLI",
	Action: configAction,
	Description: "The local state drives how the engine is assembled on " +
		"every invocation. Recognized keys: 'paused' (true/false), " +
		"'default_timelock' (duration), 'credential:<identity>' (credential " +
		"bound to an identity), 'yield:<asset>' (annual yield rate quoted " +
		"for an asset).",
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
