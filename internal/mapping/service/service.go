package service

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"keyword-mapping-service/internal/mapping/model"
)

// Progress is a passive callback invoked after each processed record.
type Progress func(done, total int)

// Run maps every record against the index and derives the two output
// columns. Records are independent and the index is read-only after Build,
// so the pass is chunked across workers; result order follows record order.
func Run(ctx context.Context, records []model.Record, ix *Index, workers int, progress Progress) []model.ResultRow {
	ix.Build()

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	out := make([]model.ResultRow, len(records))
	var done atomic.Int64
	total := len(records)

	g, _ := errgroup.WithContext(ctx)
	chunk := (len(records) + workers - 1) / workers
	for lo := 0; lo < len(records); lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > len(records) {
			hi = len(records)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = mapOne(records[i], ix)
				if progress != nil {
					progress(int(done.Add(1)), total)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return out
}

func mapOne(r model.Record, ix *Index) model.ResultRow {
	kws := ix.Extract(r.Text)
	if len(kws) == 0 {
		return model.ResultRow{Keywords: "-", Products: "-"}
	}

	// each keyword contributes its product list as one pre-joined string;
	// dedup happens on those composite strings, in first-appearance order
	seen := make(map[string]struct{}, len(kws))
	prods := make([]string, 0, len(kws))
	for _, kw := range kws {
		p := ix.Products(kw)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		prods = append(prods, p)
	}

	return model.ResultRow{
		Keywords: strings.Join(kws, ", "),
		Products: strings.Join(prods, ", "),
	}
}
