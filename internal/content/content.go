// Package content fetches the text of Tehillim chapters.
package content

import (
	"context"
	"errors"
	"fmt"
)

// Sources a chapter can come from.
const (
	SourceSefaria     = "sefaria"
	SourceCache       = "cache"
	SourceStatic      = "static"
	SourcePlaceholder = "placeholder"
)

// ErrUnavailable is returned by remote providers when the text service
// cannot be reached or answers with something unusable.
var ErrUnavailable = errors.New("content source unavailable")

// ErrInvalidRange is returned for chapter ranges outside 1-150.
var ErrInvalidRange = errors.New("invalid chapter range")

// Chapter is the text of one chapter, one string per verse.
type Chapter struct {
	Number int      `json:"number"`
	Verses []string `json:"verses"`
	Source string   `json:"source,omitempty"`
}

// Provider returns the chapters start..end in order.
type Provider interface {
	FetchUnits(ctx context.Context, start, end int) ([]Chapter, error)
}

// Cache stores fetched chapters. GetChapters returns only the chapters it
// has, in ascending order.
type Cache interface {
	GetChapters(ctx context.Context, start, end int) ([]Chapter, error)
	PutChapters(ctx context.Context, chapters []Chapter) error
}

// ValidateRange checks that start..end is a non-empty span of 1-150.
func ValidateRange(start, end int) error {
	if start < 1 || end > 150 || end < start {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	return nil
}
