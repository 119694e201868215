package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var ledger = cli.Command{
	Name:   "ledger",
	Usage:  "print the whole custody ledger",
	Action: ledgerAction,
}

func ledgerAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := svc.settlement.GetLedger(context.Background())
	if err != nil {
		return err
	}

	printJSON(entryViews(entries))

	return nil
}
