package cards

import (
	"errors"
	"fmt"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Batch splits items into contiguous batches of size, keeping order. The last
// batch may be shorter. Each batch has its capacity capped so appending to one
// never writes into the next.
func Batch[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches, nil
}

// Truncate keeps the first limit items. A limit of zero or less keeps all.
func Truncate[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
