package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

var (
	htlxDataDir = btcutil.AppDataDir("htlx-cli", false)
	statePath   = path.Join(htlxDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "htlx CLI"
	app.Usage = "Command line interface for operating the htlx settlement engine"
	app.Commands = append(
		app.Commands,
		&cliConfig,
		&gensecret,
		&initiate,
		&complete,
		&refund,
		&swapinfo,
		&listswaps,
		&ledger,
		&balances,
		&fund,
		&pause,
		&unpause,
		&webhook,
		&listwebhooks,
		&quoteyield,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid state file %s: %w", statePath, err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(htlxDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(htlxDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		return err
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

func printJSON(v interface{}) {
	jsonString, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}
	fmt.Println(string(jsonString))
}

func swapView(swap *domain.Swap) map[string]interface{} {
	legs := make([]map[string]interface{}, 0, len(swap.Legs))
	for _, leg := range swap.Legs {
		legView := map[string]interface{}{
			"owner":  leg.Owner,
			"asset":  leg.Asset,
			"amount": leg.Amount.String(),
			"kind":   leg.Kind().String(),
		}
		if leg.AccruedYield.IsPositive() {
			legView["accrued_yield"] = leg.AccruedYield.String()
		}
		if leg.RequiredCredential != "" {
			legView["required_credential"] = leg.RequiredCredential
		}
		legs = append(legs, legView)
	}

	view := map[string]interface{}{
		"id":          swap.Id,
		"initiator":   swap.Initiator,
		"participant": swap.Participant,
		"legs":        legs,
		"commitment":  swap.Commitment,
		"nonce":       swap.Nonce,
		"status":      swap.Status.String(),
		"created_at":  swap.CreatedAt,
		"expires_at":  swap.ExpiresAt(),
	}
	if swap.RevealedSecret != "" {
		view["revealed_secret"] = swap.RevealedSecret
	}
	if swap.IsFinalized() {
		view["settled_at"] = swap.SettledAt
	}
	return view
}

func entryView(entry *domain.CustodyEntry) map[string]interface{} {
	view := map[string]interface{}{
		"swap_id":     entry.SwapId,
		"leg_index":   entry.LegIndex,
		"owner":       entry.Owner,
		"asset":       entry.Asset,
		"amount":      entry.Amount.String(),
		"status":      entry.Status.String(),
		"escrowed_at": entry.EscrowedAt,
	}
	if entry.IsSettled() {
		view["released_to"] = entry.ReleasedTo
		view["settled_at"] = entry.SettledAt
	}
	return view
}

func entryViews(entries []*domain.CustodyEntry) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView(entry))
	}
	return views
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[htlx] %v\n", err)
	}
	os.Exit(1)
}
