package search

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/minsoolab/learnletter/pkg/models"
)

// Outcome is the result of one source's fetch: a normalized result set or
// the error that prevented it. Exactly one field is set.
type Outcome struct {
	Result *models.SearchResult
	Err    error
}

// FetchAll queries every source concurrently, one worker per source, and
// returns an outcome per source type. A failing source never blocks or
// drops another source's results; errors are logged and carried in the
// mapping rather than returned. FetchAll itself adds no timeout layer —
// adapters own their network deadlines.
func FetchAll(ctx context.Context, query string, count int, sources []Source) map[models.SourceType]Outcome {
	outcomes := make(map[models.SourceType]Outcome, len(sources))
	if len(sources) == 0 {
		return outcomes
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(sources))

	for _, src := range sources {
		src := src
		g.Go(func() error {
			result, err := src.Search(gctx, query, count)
			if err != nil {
				log.Printf("search: source %s failed for %q: %v", src.Type(), query, err)
			}
			mu.Lock()
			outcomes[src.Type()] = Outcome{Result: result, Err: err}
			mu.Unlock()
			return nil // partial failure is not fatal
		})
	}
	_ = g.Wait()

	return outcomes
}
