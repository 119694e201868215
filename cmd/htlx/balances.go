package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var balances = cli.Command{
	Name:  "balances",
	Usage: "print every non-zero balance held by the custody provider",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "holder",
			Usage: "only print the balances of the given identity",
		},
	},
	Action: balancesAction,
}

func balancesAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	accounts, err := svc.custody.Accounts(context.Background())
	if err != nil {
		return err
	}

	holder := ctx.String("holder")
	views := make([]map[string]interface{}, 0, len(accounts))
	for _, account := range accounts {
		if holder != "" && account.Holder != holder {
			continue
		}
		views = append(views, map[string]interface{}{
			"asset":   account.Asset,
			"holder":  account.Holder,
			"balance": account.Balance.String(),
		})
	}
	printJSON(views)

	return nil
}
