package engine

import "sync"

// indexRange is a half-open [From, To) slice of the outer loop index space.
type indexRange struct {
	From int
	To   int
}

// splitIndexes partitions [0, n) into at most workers near-equal ranges.
func splitIndexes(n, workers int) []indexRange {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	ranges := make([]indexRange, 0, workers)
	chunk := n / workers
	rem := n % workers
	from := 0
	for i := 0; i < workers; i++ {
		to := from + chunk
		if i < rem {
			to++
		}
		ranges = append(ranges, indexRange{From: from, To: to})
		from = to
	}
	return ranges
}

// mapRanges runs fn over each range in its own goroutine and concatenates
// the per-range result slices after all goroutines finish. Each goroutine
// appends only to its own slice, so no output locking is needed.
func mapRanges[T any](ranges []indexRange, fn func(r indexRange) []T) []T {
	results := make([][]T, len(ranges))
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r indexRange) {
			defer wg.Done()
			results[i] = fn(r)
		}(i, r)
	}
	wg.Wait()

	total := 0
	for _, part := range results {
		total += len(part)
	}
	merged := make([]T, 0, total)
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}
