package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ApplyFilter returns the rows matching pred, in input order. The first row
// whose evaluation fails aborts the filter; the error names the 1-based row
// number.
func ApplyFilter(rows [][]string, pred Predicate) ([][]string, error) {
	if pred == nil {
		return rows, nil
	}

	filtered := make([][]string, 0)
	for i, row := range rows {
		match, err := pred(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// minChunk keeps tiny inputs from being split across goroutines.
const minChunk = 256

// ApplyFilterParallel evaluates pred over contiguous chunks of rows on up to
// workers goroutines. The result keeps input order. When several rows fail,
// the error reported is from one of them, not necessarily the first.
func ApplyFilterParallel(ctx context.Context, rows [][]string, pred Predicate, workers int) ([][]string, error) {
	if pred == nil {
		return rows, nil
	}
	if workers <= 1 || len(rows) < 2*minChunk {
		return ApplyFilter(rows, pred)
	}

	chunk := (len(rows) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	parts := make([][][]string, (len(rows)+chunk-1)/chunk)

	g, gctx := errgroup.WithContext(ctx)
	for p := range parts {
		p := p
		start := p * chunk
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			var kept [][]string
			for i := start; i < end; i++ {
				if i%minChunk == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				match, err := pred(rows[i])
				if err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				if match {
					kept = append(kept, rows[i])
				}
			}
			parts[p] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, part := range parts {
		n += len(part)
	}
	filtered := make([][]string, 0, n)
	for _, part := range parts {
		filtered = append(filtered, part...)
	}
	return filtered, nil
}
