package fetch

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// RateLimited wraps a RecordSource with a token-bucket limiter so batch
// warming cannot overwhelm the upstream record store.
type RateLimited struct {
	src     RecordSource
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited wrapper allowing perSec fetches
// per second with the given burst.
func NewRateLimited(src RecordSource, perSec float64, burst int) *RateLimited {
	return &RateLimited{
		src:     src,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// FetchRecords waits for limiter clearance, then delegates.
func (r *RateLimited) FetchRecords(ctx context.Context, identifier string) ([]model.RawRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrapf(ErrFetchFailed, "fetch: rate limit wait: %v", err)
	}
	return r.src.FetchRecords(ctx, identifier)
}
