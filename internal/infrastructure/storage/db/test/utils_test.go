package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

func makeRandomSwap() *domain.Swap {
	initiator := randomId()
	participant := randomId()
	legs := []domain.SwapLeg{
		{
			Owner:  initiator,
			Asset:  randomHex(32),
			Amount: decimal.NewFromInt(100),
		},
		{
			Owner:  participant,
			Asset:  randomHex(32),
			Amount: decimal.NewFromInt(4200),
		},
	}
	swap, _ := domain.NewSwap(
		initiator, participant, legs, randomCommitment(), time.Hour,
		time.Now(), "",
	)
	return swap
}

func makeRandomEntry(swapId string, legIndex int) *domain.CustodyEntry {
	leg := domain.SwapLeg{
		Owner:  randomId(),
		Asset:  randomHex(32),
		Amount: decimal.NewFromInt(100),
	}
	return domain.NewCustodyEntry(swapId, legIndex, leg, time.Now())
}

func randomCommitment() string {
	return domain.HashSecret(randomBytes(32))
}

func randomSecret() (string, string) {
	buf := randomBytes(32)
	return hex.EncodeToString(buf), domain.HashSecret(buf)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomId() string {
	return uuid.New().String()
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
