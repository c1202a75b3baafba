package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

// PlaceholderVerse is shown for chapters with no text available offline.
const PlaceholderVerse = "הטקסט אינו זמין במצב לא מקוון"

//go:embed static/psalms.json
var staticJSON []byte

// Static serves the chapters bundled with the binary and a placeholder for
// the rest. It never fails for a valid range.
type Static struct {
	chapters map[int]Chapter
}

// NewStatic loads the bundled dataset.
func NewStatic() (*Static, error) {
	var chapters []Chapter
	if err := json.Unmarshal(staticJSON, &chapters); err != nil {
		return nil, fmt.Errorf("decode bundled chapters: %w", err)
	}

	s := &Static{chapters: make(map[int]Chapter, len(chapters))}
	for _, ch := range chapters {
		ch.Source = SourceStatic
		s.chapters[ch.Number] = ch
	}
	return s, nil
}

// Chapter returns chapter n, or a placeholder when it is not bundled.
func (s *Static) Chapter(n int) Chapter {
	if ch, ok := s.chapters[n]; ok {
		return ch
	}
	return Chapter{Number: n, Verses: []string{PlaceholderVerse}, Source: SourcePlaceholder}
}

// FetchUnits implements Provider.
func (s *Static) FetchUnits(_ context.Context, start, end int) ([]Chapter, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	out := make([]Chapter, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, s.Chapter(n))
	}
	return out, nil
}
