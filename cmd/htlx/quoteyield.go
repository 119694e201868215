package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var quoteyield = cli.Command{
	Name: "quoteyield",
	Usage: "quote the yield accrued by a principal since a given time, " +
		"at the rates configured with 'config set yield:<asset> <rate>'",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the yield-bearing asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "principal",
			Usage:    "the principal amount",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "since",
			Usage:    "the RFC3339 time accrual started at",
			Required: true,
		},
	},
	Action: quoteYieldAction,
}

func quoteYieldAction(ctx *cli.Context) error {
	principal, err := decimal.NewFromString(ctx.String("principal"))
	if err != nil {
		return fmt.Errorf("invalid principal %q: %s", ctx.String("principal"), err)
	}
	since, err := time.Parse(time.RFC3339, ctx.String("since"))
	if err != nil {
		return fmt.Errorf("invalid since %q: %s", ctx.String("since"), err)
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	accrued, err := svc.yields.AccruedYield(
		context.Background(), ctx.String("asset"), principal, since,
	)
	if err != nil {
		return err
	}

	printJSON(map[string]string{
		"asset":         ctx.String("asset"),
		"principal":     principal.String(),
		"accrued_yield": accrued.String(),
	})

	return nil
}
