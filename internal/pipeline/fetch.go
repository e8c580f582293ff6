package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// currentCacheVersion defines the version of the fetch cache schema.
const currentCacheVersion = 1

// maxCacheAge bounds how long cached commit histories stay valid. Repos
// change fast around a hackathon deadline, so entries expire within a day.
const maxCacheAge = 24 * time.Hour

// fetchResult is the outcome of one repository fetch.
type fetchResult struct {
	commits  []schema.RawCommit
	warnings []string
	err      error
}

// fetchAllCommits fetches commit history for all submissions in parallel
// using a worker pool. Results land in fixed slots so the output order
// matches the input order.
func fetchAllCommits(ctx context.Context, specs []contract.RepoSpec, cfg *contract.Config, client contract.HostClient, store contract.FetchStore) []fetchResult {
	specCh := make(chan int, len(specs))
	results := make([]fetchResult, len(specs))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for i := range specCh {
				results[i] = cachedFetchCommits(ctx, specs[i].RepoURL, client, store)
			}
		})
	}

	// Send submissions to worker channel
	for i := range specs {
		specCh <- i
	}
	close(specCh)

	// Wait for all workers to finish processing
	wg.Wait()

	return results
}

// cachedFetchCommits checks the fetch cache before hitting the host API.
func cachedFetchCommits(ctx context.Context, repoURL string, client contract.HostClient, store contract.FetchStore) fetchResult {
	if store == nil {
		return directFetch(ctx, repoURL, client)
	}

	key := generateCacheKey(repoURL)

	// Check for cache hit
	if commits := checkCacheHit(store, key); commits != nil {
		return fetchResult{commits: commits}
	}

	// Cache miss: fetch and store
	result := directFetch(ctx, repoURL, client)
	if result.err == nil {
		if data, err := json.Marshal(result.commits); err == nil {
			_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
		}
	}
	return result
}

// directFetch calls the host API without caching.
func directFetch(ctx context.Context, repoURL string, client contract.HostClient) fetchResult {
	commits, warnings, err := client.FetchCommits(ctx, repoURL)
	return fetchResult{commits: commits, warnings: warnings, err: err}
}

// checkCacheHit attempts to retrieve and validate a cached commit history.
func checkCacheHit(store contract.FetchStore, key string) []schema.RawCommit {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= maxCacheAge {
			var commits []schema.RawCommit
			if err := json.Unmarshal(data, &commits); err == nil && commits != nil {
				return commits // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// generateCacheKey creates a unique key for one repository's history.
func generateCacheKey(repoURL string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(repoURL)))
}
