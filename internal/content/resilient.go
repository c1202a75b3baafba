package content

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTimeout bounds one remote fetch of a chapter range.
const DefaultTimeout = 8 * time.Second

// Resilient serves chapters from the cache, then the remote source, then
// the bundled dataset. It never fails for a valid range; only caller
// cancellation is reported.
type Resilient struct {
	remote  Provider
	cache   Cache
	static  *Static
	timeout time.Duration
	logger  *slog.Logger
}

// NewResilient creates a Resilient provider. remote and cache may be nil.
func NewResilient(remote Provider, cache Cache, static *Static, timeout time.Duration, logger *slog.Logger) *Resilient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{
		remote:  remote,
		cache:   cache,
		static:  static,
		timeout: timeout,
		logger:  logger,
	}
}

// FetchUnits implements Provider.
func (r *Resilient) FetchUnits(ctx context.Context, start, end int) ([]Chapter, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make(map[int]Chapter, end-start+1)

	if r.cache != nil {
		cached, err := r.cache.GetChapters(ctx, start, end)
		if err != nil {
			r.logger.Debug("content cache read failed", slog.Any("error", err))
		}
		for _, ch := range cached {
			found[ch.Number] = ch
		}
	}

	if first, last, ok := missingSpan(found, start, end); ok && r.remote != nil {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		fetched, err := r.remote.FetchUnits(callCtx, first, last)
		cancel()

		switch {
		case err == nil:
			var fresh []Chapter
			for _, ch := range fetched {
				if _, ok := found[ch.Number]; !ok {
					found[ch.Number] = ch
					fresh = append(fresh, ch)
				}
			}
			if r.cache != nil && len(fresh) > 0 {
				if err := r.cache.PutChapters(ctx, fresh); err != nil {
					r.logger.Debug("content cache write failed", slog.Any("error", err))
				}
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			r.logger.Debug("content fallback",
				slog.Int("start", first),
				slog.Int("end", last),
				slog.Any("error", err),
			)
		}
	}

	out := make([]Chapter, 0, end-start+1)
	for n := start; n <= end; n++ {
		if ch, ok := found[n]; ok {
			out = append(out, ch)
			continue
		}
		out = append(out, r.static.Chapter(n))
	}
	return out, nil
}

// missingSpan returns the smallest span covering every chapter of
// start..end not in found.
func missingSpan(found map[int]Chapter, start, end int) (int, int, bool) {
	first, last := 0, 0
	for n := start; n <= end; n++ {
		if _, ok := found[n]; ok {
			continue
		}
		if first == 0 {
			first = n
		}
		last = n
	}
	return first, last, first != 0
}
