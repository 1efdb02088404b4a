/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

// DefaultBatchSize is the most names QLRanks accepts in one request.
const DefaultBatchSize = 150

// Partition de-duplicates names case-insensitively, drops those the cache
// already has fetched ratings for, and splits the remainder into batches of
// at most batchSize names in encounter order. batchSize < 1 uses
// DefaultBatchSize.
func Partition(cache *Cache, names []string, batchSize int) [][]string {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	seen := make(map[string]struct{}, len(names))
	var pending []string
	for _, name := range names {
		if name == "" {
			continue
		}
		key := Key(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if cache != nil {
			if _, fetched := cache.Get(name); fetched {
				continue
			}
		}
		pending = append(pending, name)
	}

	var batches [][]string
	for len(pending) > 0 {
		n := min(batchSize, len(pending))
		batches = append(batches, pending[:n:n])
		pending = pending[n:]
	}

	return batches
}
