package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/htlx-network/htlx-daemon/internal/config"
	"github.com/htlx-network/htlx-daemon/internal/core/application/custody"
	appubsub "github.com/htlx-network/htlx-daemon/internal/core/application/pubsub"
	"github.com/htlx-network/htlx-daemon/internal/core/application/settlement"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/accessgate"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/custodian"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/oracle"
	webhookpubsub "github.com/htlx-network/htlx-daemon/internal/infrastructure/pubsub"
	dbbadger "github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/badger"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/htlx-network/htlx-daemon/pkg/stats"
)

const (
	pausedStateKey       = "paused"
	credentialStatePfx   = "credential:"
	yieldRateStatePfx    = "yield:"
	defaultTimeLockState = "default_timelock"
)

// custodyService is the provider surface the CLI needs beyond plain
// transfers: funding accounts and dumping balances.
type custodyService interface {
	ports.CustodyProvider
	Fund(asset, holder string, amount decimal.Decimal) error
	Accounts(ctx context.Context) ([]custodian.Account, error)
}

type appServices struct {
	settlement *settlement.Service
	pubsub     *appubsub.Service
	custody    custodyService
	yields     *oracle.FixedRateYieldOracle
}

// getServices assembles the settlement engine against the stores under the
// configured datadir. The returned cleanup closes every opened store.
func getServices() (*appServices, func(), error) {
	if err := config.InitConfig(); err != nil {
		return nil, nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	state, err := getState()
	if err != nil {
		return nil, nil, err
	}

	stopProfiler := func() {}
	if config.GetBool(config.EnableProfilerKey) {
		statsDir := filepath.Join(config.GetDatadir(), config.ProfilerLocation)
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		statsCtx, cancel := context.WithCancel(context.Background())
		stats.EnableMemoryStatistics(statsCtx, interval)
		stopProfiler = func() {
			cancel()
			if err := stats.DumpPrometheusDefaults(
				filepath.Join(statsDir, "metrics"),
			); err != nil {
				log.WithError(err).Warn("failed to dump metrics")
			}
		}
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)

	var repoManager ports.RepoManager
	var provider custodyService
	var bucketStore webhookpubsub.BucketStore

	switch config.GetString(config.DBTypeKey) {
	case config.DBTypeInMemory:
		repoManager = inmemory.NewRepoManager()
		provider = custodian.NewInMemoryProvider()
		bucketStore = webhookpubsub.NewInMemoryBucketStore()
	default:
		badgerRepoManager, err := dbbadger.NewRepoManager(dbDir, nil)
		if err != nil {
			return nil, nil, err
		}
		badgerProvider, err := custodian.NewBadgerProvider(dbDir, nil)
		if err != nil {
			badgerRepoManager.Close()
			return nil, nil, err
		}
		badgerBucketStore, err := webhookpubsub.NewBadgerBucketStore(dbDir, nil)
		if err != nil {
			badgerRepoManager.Close()
			//nolint
			badgerProvider.Close()
			return nil, nil, err
		}
		repoManager = badgerRepoManager
		provider = badgerProvider
		bucketStore = badgerBucketStore
	}

	securePubsub, err := webhookpubsub.NewService(
		bucketStore,
		time.Duration(config.GetInt(config.WebhookRequestTimeoutKey))*time.Second,
		config.GetInt(config.WebhookRateLimitKey),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := securePubsub.Store().Init(); err != nil {
		return nil, nil, err
	}
	pubsubSvc := appubsub.NewService(securePubsub)

	gate := accessgate.NewService()
	if state[pausedStateKey] == "true" {
		gate.Pause()
	}

	credentialOracle := oracle.NewStaticCredentialOracle()
	yieldRates := make(map[string]decimal.Decimal)
	for key, value := range state {
		if identity := strings.TrimPrefix(key, credentialStatePfx); identity != key {
			credentialOracle.SetCredential(identity, value)
			continue
		}
		if asset := strings.TrimPrefix(key, yieldRateStatePfx); asset != key {
			rate, err := decimal.NewFromString(value)
			if err != nil {
				log.Warnf("skipping invalid yield rate for %s: %s", asset, value)
				continue
			}
			yieldRates[asset] = rate
		}
	}
	yieldOracle := oracle.NewFixedRateYieldOracle(yieldRates, nil)

	adapter, err := custody.NewAdapter(provider, credentialOracle, repoManager)
	if err != nil {
		return nil, nil, err
	}

	settlementSvc, err := settlement.NewService(
		repoManager, adapter, gate, pubsubSvc, nil,
	)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		repoManager.Close()
		//nolint
		securePubsub.Store().Close()
		if closer, ok := provider.(interface{ Close() error }); ok {
			//nolint
			closer.Close()
		}
		stopProfiler()
	}

	return &appServices{
		settlement: settlementSvc,
		pubsub:     pubsubSvc,
		custody:    provider,
		yields:     yieldOracle,
	}, cleanup, nil
}

// getDefaultTimeLock returns the time lock applied to swaps initiated without
// an explicit one, the local state overriding the environment.
func getDefaultTimeLock(state map[string]string) time.Duration {
	if raw, ok := state[defaultTimeLockState]; ok {
		if timeLock, err := time.ParseDuration(raw); err == nil && timeLock > 0 {
			return timeLock
		}
	}
	return config.GetDuration(config.DefaultTimeLockKey)
}
