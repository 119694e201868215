package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var swapinfo = cli.Command{
	Name:      "swap",
	Usage:     "print a swap along with its custody entries",
	ArgsUsage: "<id>",
	Action:    swapInfoAction,
}

func swapInfoAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "swap"}
	}
	id := ctx.Args().First()

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	swap, err := svc.settlement.GetSwap(context.Background(), id)
	if err != nil {
		return err
	}
	entries, err := svc.settlement.GetCustodyEntries(context.Background(), id)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"swap":    swapView(swap),
		"custody": entryViews(entries),
	})

	return nil
}
