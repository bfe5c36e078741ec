// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
)

// Cache fetches assets and holds a copy, returning them on request.
// A Cache is composed of four mechanisms:
//
// 1. a zero object
// 2. a function for fetching assets
// 3. a function for invalidating assets
// 4. a call-back function for when an asset is fetched
//
// When an asset is requested, Cache returns the asset if it is cached.
// Otherwise, it returns the zero object, and queues up a fetch for the object
// in the background. When the fetch is complete, the callback function is
// called, allowing the caller to get the real asset. An invalidation function
// allows Cache to manage the cache size by removing cached invalid objects.
//
// Caches are indexed by strings; smp keys artwork by track path.
type Cache[T any] struct {
	zero       T
	cache      *xsync.MapOf[string, T]
	pending    *xsync.MapOf[string, struct{}]
	pipeline   chan string
	closed     atomic.Bool
	closeOnce  sync.Once
	cacheCheck func(string) string
}

// NewCache sets up a new cache, given
//
//   - a zeroValue, returned immediately on cache misses
//   - a fetcher, which can be a long-running function that loads assets.
//     fetcher should take a key ID and return an asset, or an error.
//   - a fetchedItem call-back function, which will be called when a requested asset is available. It
//     will be called with the asset ID, and the loaded asset.
//   - a cacheCheck function which, when given a key, returns a key to remove from the
//     cache, or the empty string if nothing is to be removed.
//   - a logger, used for reporting errors returned by the fetching function
//
// The invalidation should be reasonably efficient.
func NewCache[T any](
	zeroValue T,
	fetcher func(string) (T, error),
	fetchedItem func(string, T),
	cacheCheck func(string) string,
	logger logger.LoggerInterface,
) *Cache[T] {
	c := &Cache[T]{
		zero:       zeroValue,
		cache:      xsync.NewMapOf[string, T](),
		pending:    xsync.NewMapOf[string, struct{}](),
		pipeline:   make(chan string, 1000),
		cacheCheck: cacheCheck,
	}

	go func() {
		for key := range c.pipeline {
			asset, err := fetcher(key)
			c.pending.Delete(key)
			if err != nil {
				logger.Printf("error fetching asset %s: %s", key, err)
				continue
			}
			if c.closed.Load() {
				continue
			}
			c.cache.Store(key, asset)
			if remove := cacheCheck(key); remove != "" {
				c.cache.Delete(remove)
			}
			fetchedItem(key, asset)
		}
	}()

	return c
}

// Get returns a cached asset, or the zero asset on a cache miss.
// On a cache miss, the requested asset is queued for fetching unless a
// fetch for it is already underway.
func (c *Cache[T]) Get(key string) T {
	if v, ok := c.cache.Load(key); ok {
		// We're just touching something in the cache, not putting anything in it,
		// so we just call cacheCheck to refresh this key
		c.cacheCheck(key)
		return v
	}
	if c.closed.Load() {
		return c.zero
	}
	if _, loading := c.pending.LoadOrStore(key, struct{}{}); !loading {
		select {
		case c.pipeline <- key:
		default:
			// queue full; a later Get retries
			c.pending.Delete(key)
		}
	}
	return c.zero
}

func (c *Cache[T]) Len() int {
	return c.cache.Size()
}

// Close clears the cache and stops the fetching goroutine. Get keeps
// returning the zero object afterwards.
func (c *Cache[T]) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cache.Clear()
		close(c.pipeline)
	})
}
