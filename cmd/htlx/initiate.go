package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/internal/core/application/settlement"
	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

var initiate = cli.Command{
	Name:  "initiate",
	Usage: "open a swap, locking the initiator leg behind a commitment",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "initiator",
			Usage:    "the identity opening the swap",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "participant",
			Usage:    "the identity that can settle the swap by revealing the secret",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "commitment",
			Usage:    "the commitment binding the secret, see gensecret",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "timelock",
			Usage: "how long the swap stays completable before it can be refunded",
		},
		&cli.StringFlag{
			Name: "nonce",
			Usage: "differentiates swaps between the same parties behind the " +
				"same commitment, minted when omitted",
		},
		&cli.BoolFlag{
			Name:  "escrow-participant",
			Usage: "move the participant leg into escrow upfront",
		},
		&cli.StringFlag{
			Name:     "send-asset",
			Usage:    "asset of the leg funded by the initiator",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "send-amount",
			Usage:    "amount of the leg funded by the initiator",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "send-yield",
			Usage: "accrued yield locked together with the initiator principal",
		},
		&cli.StringFlag{
			Name:  "send-credential",
			Usage: "credential the receiver of the initiator leg must present",
		},
		&cli.StringFlag{
			Name:  "recv-asset",
			Usage: "asset of the optional leg funded by the participant",
		},
		&cli.StringFlag{
			Name:  "recv-amount",
			Usage: "amount of the optional leg funded by the participant",
		},
		&cli.StringFlag{
			Name:  "recv-yield",
			Usage: "accrued yield locked together with the participant principal",
		},
		&cli.StringFlag{
			Name:  "recv-credential",
			Usage: "credential the receiver of the participant leg must present",
		},
	},
	Action: initiateAction,
}

func initiateAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	state, err := getState()
	if err != nil {
		return err
	}

	timeLock := ctx.Duration("timelock")
	if timeLock <= 0 {
		timeLock = getDefaultTimeLock(state)
	}

	sendLeg, err := legFromFlags(ctx, "send", ctx.String("initiator"))
	if err != nil {
		return err
	}
	legs := []domain.SwapLeg{*sendLeg}

	if ctx.String("recv-asset") != "" || ctx.String("recv-amount") != "" {
		recvLeg, err := legFromFlags(ctx, "recv", ctx.String("participant"))
		if err != nil {
			return err
		}
		legs = append(legs, *recvLeg)
	}

	swap, err := svc.settlement.InitiateSwap(
		context.Background(), settlement.InitiateSwapRequest{
			Initiator:            ctx.String("initiator"),
			Participant:          ctx.String("participant"),
			Legs:                 legs,
			Commitment:           ctx.String("commitment"),
			TimeLockDuration:     timeLock,
			EscrowParticipantLeg: ctx.Bool("escrow-participant"),
			Nonce:                ctx.String("nonce"),
		},
	)
	if err != nil {
		return err
	}

	printJSON(swapView(swap))

	return nil
}

func legFromFlags(
	ctx *cli.Context, prefix, owner string,
) (*domain.SwapLeg, error) {
	rawAmount := ctx.String(prefix + "-amount")
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid %s-amount %q", prefix, rawAmount)
	}

	leg := &domain.SwapLeg{
		Owner:              owner,
		Asset:              ctx.String(prefix + "-asset"),
		Amount:             amount,
		RequiredCredential: ctx.String(prefix + "-credential"),
	}

	if rawYield := ctx.String(prefix + "-yield"); rawYield != "" {
		yield, err := decimal.NewFromString(rawYield)
		if err != nil {
			return nil, fmt.Errorf("invalid %s-yield %q", prefix, rawYield)
		}
		leg.AccruedYield = yield
	}

	return leg, nil
}
