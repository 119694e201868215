package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	appubsub "github.com/htlx-network/htlx-daemon/internal/core/application/pubsub"
)

var (
	webhook = cli.Command{
		Name:  "webhook",
		Usage: "add or remove webhooks notified of settlement events",
		Subcommands: []*cli.Command{
			webhookAddCmd, webhookRemoveCmd,
		},
	}

	listwebhooks = cli.Command{
		Name:  "webhooks",
		Usage: "list all webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "topic",
				Usage: fmt.Sprintf(
					"one of %s, %s, %s or *",
					appubsub.EventSwapInitiated,
					appubsub.EventSwapCompleted,
					appubsub.EventSwapRefunded,
				),
			},
		},
		Action: listWebhooksAction,
	}

	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "topic",
				Usage: fmt.Sprintf(
					"one of %s, %s, %s or * for all of them",
					appubsub.EventSwapInitiated,
					appubsub.EventSwapCompleted,
					appubsub.EventSwapRefunded,
				),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "the endpoint called whenever the target event occurs",
				Required: true,
			},
			&cli.StringFlag{
				Name: "secret",
				Usage: "the eventual secret used to sign the token " +
					"authenticating requests to the webhook endpoint",
			},
		},
		Action: webhookAddAction,
	}

	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook by id",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "the id of the webhook to remove",
				Required: true,
			},
		},
		Action: webhookRemoveAction,
	}
)

func webhookAddAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := svc.pubsub.AddWebhook(
		context.Background(),
		ctx.String("topic"), ctx.String("endpoint"), ctx.String("secret"),
	)
	if err != nil {
		return err
	}

	printJSON(map[string]string{"id": id})

	return nil
}

func webhookRemoveAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.pubsub.RemoveWebhook(
		context.Background(), ctx.String("id"),
	); err != nil {
		return err
	}

	fmt.Println("webhook has been removed")

	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	subscriptions, err := svc.pubsub.ListWebhooks(
		context.Background(), ctx.String("topic"),
	)
	if err != nil {
		return err
	}

	views := make([]map[string]interface{}, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		views = append(views, map[string]interface{}{
			"id":       subscription.Id(),
			"topic":    subscription.Topic(),
			"endpoint": subscription.NotifyAt(),
			"secured":  subscription.IsSecured(),
		})
	}
	printJSON(views)

	return nil
}
