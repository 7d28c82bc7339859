// Package cache provides byte-budgeted LRU caches for immutable blocks.
//
// LRUBlockCache is a single-mutex LRU. ShardedLRUBlockCache spreads keys over
// 64 LRU shards to reduce lock contention. Both charge cached bytes to an
// optional resource.Controller and drop a block instead of blocking when the
// shared budget is exhausted.
package cache
