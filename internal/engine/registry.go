package engine

import (
	"hash/fnv"
	"sync"

	"arbScope/internal/model"
)

const shardCount = 32

// registryShard guards one slice of the key space. Pools and the pair index
// use different keys, so one logical upsert may touch two shards; the locks
// are taken one at a time, never nested.
type registryShard struct {
	mu    sync.RWMutex
	pools map[string]model.PoolState
	pairs map[string]model.PoolState
}

// Registry is a concurrent store of directional pool states. It is sharded so
// that producers can upsert while scanners read without a global lock. It is
// an owned object: construct one with NewRegistry and pass it where needed.
//
// Two key schemes coexist: the canonical 3-part key (dex, tokenA, tokenB) for
// Upsert/Get, and a 2-part directional token-pair index for GetPair used by
// route enumeration and the slippage helper. The pair index keeps whichever
// pool for a pair was written last, regardless of dex. The schemes are kept
// separate on purpose; see DESIGN.md.
type Registry struct {
	shards [shardCount]registryShard
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].pools = make(map[string]model.PoolState)
		r.shards[i].pairs = make(map[string]model.PoolState)
	}
	return r
}

func (r *Registry) shardFor(key string) *registryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &r.shards[h.Sum32()%shardCount]
}

// Upsert inserts or fully replaces the pool stored under its canonical key
// and updates the token-pair index. Last writer wins. There is no delete;
// stale entries stay until overwritten.
func (r *Registry) Upsert(pool model.PoolState) {
	key := pool.Key()
	sh := r.shardFor(key)
	sh.mu.Lock()
	sh.pools[key] = pool
	sh.mu.Unlock()

	pairKey := model.PairKey(pool.TokenA, pool.TokenB)
	ps := r.shardFor(pairKey)
	ps.mu.Lock()
	ps.pairs[pairKey] = pool
	ps.mu.Unlock()
}

// Get returns the pool stored under the canonical (dex, tokenA, tokenB) key.
func (r *Registry) Get(dex, tokenA, tokenB string) (model.PoolState, bool) {
	key := model.PoolKey(dex, tokenA, tokenB)
	sh := r.shardFor(key)
	sh.mu.RLock()
	pool, ok := sh.pools[key]
	sh.mu.RUnlock()
	return pool, ok
}

// GetPair returns a pool for the directional token pair, ignoring the dex.
func (r *Registry) GetPair(tokenIn, tokenOut string) (model.PoolState, bool) {
	key := model.PairKey(tokenIn, tokenOut)
	sh := r.shardFor(key)
	sh.mu.RLock()
	pool, ok := sh.pairs[key]
	sh.mu.RUnlock()
	return pool, ok
}

// Len returns the number of stored pools.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		n += len(sh.pools)
		sh.mu.RUnlock()
	}
	return n
}

// Snapshot copies all pool values shard by shard and builds an immutable
// pair index over the copy. No lock is held across the whole copy, so a
// snapshot taken during concurrent upserts may mix old and new values for
// different pools; each individual value was valid at some point.
func (r *Registry) Snapshot() *Snapshot {
	pools := make([]model.PoolState, 0, r.Len())
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		for _, pool := range sh.pools {
			pools = append(pools, pool)
		}
		sh.mu.RUnlock()
	}

	byPair := make(map[string]model.PoolState, len(pools))
	for _, pool := range pools {
		byPair[model.PairKey(pool.TokenA, pool.TokenB)] = pool
	}

	return &Snapshot{pools: pools, byPair: byPair}
}

// Snapshot is a point-in-time read-only view of the registry used by one
// scan. Workers read it without synchronization.
type Snapshot struct {
	pools  []model.PoolState
	byPair map[string]model.PoolState
}

// Pools returns the captured pool states. Callers must not mutate the slice.
func (s *Snapshot) Pools() []model.PoolState {
	return s.pools
}

// Pair returns a captured pool for the directional token pair, if any.
func (s *Snapshot) Pair(tokenIn, tokenOut string) (model.PoolState, bool) {
	pool, ok := s.byPair[model.PairKey(tokenIn, tokenOut)]
	return pool, ok
}

// Len returns the number of captured pools.
func (s *Snapshot) Len() int {
	return len(s.pools)
}
