package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/internal/core/application/settlement"
)

var complete = cli.Command{
	Name:  "complete",
	Usage: "settle a swap by revealing the secret behind its commitment",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the swap to complete",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "caller",
			Usage:    "the identity completing the swap, must be its participant",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the preimage of the swap commitment",
			Required: true,
		},
	},
	Action: completeAction,
}

func completeAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	swap, err := svc.settlement.CompleteSwap(
		context.Background(), settlement.CompleteSwapRequest{
			Id:     ctx.String("id"),
			Caller: ctx.String("caller"),
			Secret: ctx.String("secret"),
		},
	)
	if err != nil {
		return err
	}

	printJSON(swapView(swap))

	return nil
}
