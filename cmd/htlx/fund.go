package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var fund = cli.Command{
	Name:  "fund",
	Usage: "credit an identity with an amount of an asset",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the asset to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "holder",
			Usage:    "the identity to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to credit",
			Required: true,
		},
	},
	Action: fundAction,
}

func fundAction(ctx *cli.Context) error {
	amount, err := decimal.NewFromString(ctx.String("amount"))
	if err != nil {
		return fmt.Errorf("invalid amount %q", ctx.String("amount"))
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.custody.Fund(
		ctx.String("asset"), ctx.String("holder"), amount,
	); err != nil {
		return err
	}

	fmt.Printf(
		"credited %s %s to %s\n",
		amount, ctx.String("asset"), ctx.String("holder"),
	)

	return nil
}
