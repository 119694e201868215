package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

var listswaps = cli.Command{
	Name:  "listswaps",
	Usage: "list all swaps, optionally filtered by party",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "party",
			Usage: "only list swaps where the given identity is a party",
		},
	},
	Action: listSwapsAction,
}

func listSwapsAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	var swaps []*domain.Swap
	if party := ctx.String("party"); party != "" {
		swaps, err = svc.settlement.ListSwapsForParty(context.Background(), party)
	} else {
		swaps, err = svc.settlement.ListSwaps(context.Background())
	}
	if err != nil {
		return err
	}

	views := make([]map[string]interface{}, 0, len(swaps))
	for _, swap := range swaps {
		views = append(views, swapView(swap))
	}
	printJSON(views)

	return nil
}
