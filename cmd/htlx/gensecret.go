package main

import (
	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/pkg/swaputil"
)

var gensecret = cli.Command{
	Name:   "gensecret",
	Usage:  "generate a fresh swap secret along with the commitment binding it",
	Action: genSecretAction,
}

func genSecretAction(ctx *cli.Context) error {
	secret, commitment := swaputil.GenerateSecret()

	printJSON(map[string]string{
		"secret":     secret,
		"commitment": commitment,
	})

	return nil
}
