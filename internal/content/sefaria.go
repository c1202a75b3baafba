package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultSefariaURL is the public Sefaria API host.
const DefaultSefariaURL = "https://www.sefaria.org"

// maxConcurrentFetches bounds parallel chapter requests.
const maxConcurrentFetches = 4

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SefariaClient fetches Hebrew chapter text from the Sefaria texts API,
// one request per chapter.
type SefariaClient struct {
	baseURL string
	http    *http.Client
}

// NewSefariaClient creates a client for the API at baseURL.
func NewSefariaClient(baseURL string) *SefariaClient {
	if baseURL == "" {
		baseURL = DefaultSefariaURL
	}
	return &SefariaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type sefariaResponse struct {
	Versions []struct {
		Language string          `json:"language"`
		Text     json.RawMessage `json:"text"`
	} `json:"versions"`
	Error string `json:"error"`
}

// FetchUnits implements Provider.
func (c *SefariaClient) FetchUnits(ctx context.Context, start, end int) ([]Chapter, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}

	chapters := make([]Chapter, end-start+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for n := start; n <= end; n++ {
		n := n
		g.Go(func() error {
			ch, err := c.fetchChapter(gctx, n)
			if err != nil {
				return err
			}
			chapters[n-start] = ch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (c *SefariaClient) fetchChapter(ctx context.Context, n int) (Chapter, error) {
	q := url.Values{}
	q.Set("version", "hebrew")
	q.Set("return_format", "text_only")
	endpoint := c.baseURL + "/api/v3/texts/Psalms." + strconv.Itoa(n) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Chapter{}, fmt.Errorf("build sefaria request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Chapter{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return Chapter{}, fmt.Errorf("%w: chapter %d: status %d", ErrUnavailable, n, res.StatusCode)
	}

	var body sefariaResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Chapter{}, fmt.Errorf("%w: decode chapter %d: %v", ErrUnavailable, n, err)
	}
	if body.Error != "" {
		return Chapter{}, fmt.Errorf("%w: chapter %d: %s", ErrUnavailable, n, body.Error)
	}

	for _, v := range body.Versions {
		var verses []string
		if err := json.Unmarshal(v.Text, &verses); err != nil || len(verses) == 0 {
			continue
		}
		for i, verse := range verses {
			verses[i] = cleanVerse(verse)
		}
		return Chapter{Number: n, Verses: verses, Source: SourceSefaria}, nil
	}
	return Chapter{}, fmt.Errorf("%w: chapter %d: no text in response", ErrUnavailable, n)
}

// cleanVerse strips markup and collapses whitespace.
func cleanVerse(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&thinsp;", "")
	return strings.Join(strings.Fields(s), " ")
}
