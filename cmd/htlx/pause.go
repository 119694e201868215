package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var pause = cli.Command{
	Name: "pause",
	Usage: "suspend new swap activity, refunds of expired swaps stay " +
		"available",
	Action: pauseAction,
}

var unpause = cli.Command{
	Name:   "unpause",
	Usage:  "resume swap activity",
	Action: unpauseAction,
}

func pauseAction(ctx *cli.Context) error {
	if err := setState(map[string]string{pausedStateKey: "true"}); err != nil {
		return err
	}

	fmt.Println("settlements are paused, refunds of expired swaps stay available")
	return nil
}

func unpauseAction(ctx *cli.Context) error {
	if err := setState(map[string]string{pausedStateKey: "false"}); err != nil {
		return err
	}

	fmt.Println("settlements are resumed")
	return nil
}
