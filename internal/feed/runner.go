package feed

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"arbScope/internal/chain"
	"arbScope/internal/engine"
)

// RunConfig holds runtime settings for the reserve feed.
type RunConfig struct {
	Pairs        []PairDescriptor
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner keeps the registry current: it seeds reserves with getReserves
// calls, then follows Sync events over a log subscription. Missed block
// ranges (initial gap, reconnects) are backfilled with batched FilterLogs.
type Runner struct {
	cfg      RunConfig
	chain    *chain.Client
	registry *engine.Registry
	logger   *zap.Logger

	pairABI   abi.ABI
	syncTopic common.Hash
	byAddress map[common.Address]PairDescriptor
	addresses []common.Address
	lastBlock uint64
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chainClient *chain.Client, registry *engine.Registry, logger *zap.Logger) (*Runner, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(cfg.Pairs) == 0 {
		return nil, fmt.Errorf("at least one pair is required")
	}
	if cfg.BatchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pairABI, err := V2PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}

	byAddress := make(map[common.Address]PairDescriptor, len(cfg.Pairs))
	addresses := make([]common.Address, 0, len(cfg.Pairs))
	for _, pair := range cfg.Pairs {
		if err := pair.Validate(); err != nil {
			return nil, err
		}
		addr := common.HexToAddress(pair.Address)
		byAddress[addr] = pair
		addresses = append(addresses, addr)
	}

	return &Runner{
		cfg:       cfg,
		chain:     chainClient,
		registry:  registry,
		logger:    logger,
		pairABI:   pairABI,
		syncTopic: pairABI.Events["Sync"].ID,
		byAddress: byAddress,
		addresses: addresses,
	}, nil
}

// Seed fetches current reserves for every pair and upserts both directions
// into the registry. It records the block height the seed was taken at so
// Run can backfill from there.
func (r *Runner) Seed(ctx context.Context) error {
	latest, err := r.chain.LatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get latest block: %w", err)
	}

	for _, pair := range r.cfg.Pairs {
		if err := r.seedPairWithRetry(ctx, pair); err != nil {
			return fmt.Errorf("seed pair %s: %w", pair.Address, err)
		}
	}

	r.lastBlock = latest
	r.logger.Info("reserves seeded", zap.Int("pairs", len(r.cfg.Pairs)), zap.Uint64("block", latest))
	return nil
}

func (r *Runner) seedPairWithRetry(ctx context.Context, pair PairDescriptor) error {
	return withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		err := r.seedPair(ctx, pair)
		if err != nil {
			r.logger.Warn("getReserves failed", zap.String("pair", pair.Address), zap.Error(err))
		}
		return err
	})
}

func (r *Runner) seedPair(ctx context.Context, pair PairDescriptor) error {
	data, err := r.pairABI.Pack("getReserves")
	if err != nil {
		return fmt.Errorf("pack getReserves: %w", err)
	}

	addr := common.HexToAddress(pair.Address)
	resp, err := r.chain.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("call getReserves: %w", err)
	}

	values, err := r.pairABI.Unpack("getReserves", resp)
	if err != nil {
		return fmt.Errorf("unpack getReserves: %w", err)
	}
	if len(values) < 2 {
		return fmt.Errorf("getReserves returned %d values", len(values))
	}
	reserve0, ok0 := values[0].(*big.Int)
	reserve1, ok1 := values[1].(*big.Int)
	if !ok0 || !ok1 {
		return fmt.Errorf("getReserves returned unexpected types %T, %T", values[0], values[1])
	}

	for _, pool := range poolStates(pair, reserve0, reserve1) {
		r.registry.Upsert(pool)
	}
	return nil
}

// Run follows Sync events until ctx is cancelled. Every (re)connect first
// backfills the block gap since the last applied update, so the registry
// never silently skips reserve changes.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := r.backfill(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("backfill failed", zap.Error(err))
		}

		err := r.follow(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("subscription dropped, reconnecting", zap.Error(err))

		timer := time.NewTimer(r.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) follow(ctx context.Context) error {
	logs := make(chan types.Log, 256)
	sub, err := r.chain.SubscribeFilterLogs(ctx, r.addresses, []common.Hash{r.syncTopic}, logs)
	if err != nil {
		return fmt.Errorf("subscribe logs: %w", err)
	}
	defer sub.Unsubscribe()

	r.logger.Info("following sync events", zap.Int("pairs", len(r.addresses)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return err
		case log := <-logs:
			r.applyLog(log)
		}
	}
}

func (r *Runner) backfill(ctx context.Context) error {
	if r.lastBlock == 0 {
		return nil
	}

	latest, err := r.chain.LatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get latest block: %w", err)
	}
	if latest <= r.lastBlock {
		return nil
	}

	for from := r.lastBlock + 1; from <= latest; {
		to := from + r.cfg.BatchSize - 1
		if to > latest {
			to = latest
		}

		logs, err := r.filterLogsWithRetry(ctx, from, to)
		if err != nil {
			return fmt.Errorf("filter logs %d-%d: %w", from, to, err)
		}
		for _, log := range logs {
			r.applyLog(log)
		}
		if to > r.lastBlock {
			r.lastBlock = to
		}
		from = to + 1
	}

	r.logger.Info("backfill complete", zap.Uint64("through", latest))
	return nil
}

func (r *Runner) filterLogsWithRetry(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = r.chain.FilterLogs(ctx, fromBlock, toBlock, r.addresses, []common.Hash{r.syncTopic})
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", fromBlock), zap.Uint64("to", toBlock))
		}
		return err
	})
	return logs, err
}

// applyLog upserts both directions of the pair a Sync event belongs to.
// Reorged-out logs are ignored; the replacement Sync will follow.
func (r *Runner) applyLog(log types.Log) {
	if log.Removed {
		return
	}

	pair, ok := r.byAddress[log.Address]
	if !ok {
		return
	}

	reserve0, reserve1, err := decodeSyncLog(r.pairABI, log)
	if err != nil {
		r.logger.Warn("bad sync event",
			zap.String("pair", log.Address.Hex()),
			zap.Uint64("block", log.BlockNumber),
			zap.Error(err),
		)
		return
	}

	for _, pool := range poolStates(pair, reserve0, reserve1) {
		r.registry.Upsert(pool)
	}
	if log.BlockNumber > r.lastBlock {
		r.lastBlock = log.BlockNumber
	}

	r.logger.Debug("reserves updated",
		zap.String("dex", pair.Dex),
		zap.String("pair", pair.Token0+"/"+pair.Token1),
		zap.Uint64("block", log.BlockNumber),
	)
}
