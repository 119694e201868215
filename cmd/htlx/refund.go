package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/internal/core/application/settlement"
)

var refund = cli.Command{
	Name:  "refund",
	Usage: "settle an expired swap by returning the escrowed value to its owners",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the swap to refund",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "caller",
			Usage:    "the identity claiming the refund, must be the swap initiator",
			Required: true,
		},
	},
	Action: refundAction,
}

func refundAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	swap, err := svc.settlement.RefundSwap(
		context.Background(), settlement.RefundSwapRequest{
			Id:     ctx.String("id"),
			Caller: ctx.String("caller"),
		},
	)
	if err != nil {
		return err
	}

	printJSON(swapView(swap))

	return nil
}
