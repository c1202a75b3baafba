package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultHebcalURL is the public hebcal date converter endpoint.
const DefaultHebcalURL = "https://www.hebcal.com/converter"

// HebcalClient is a remote Oracle backed by the hebcal converter API.
// It has no fallback of its own; wrap it in Resilient.
type HebcalClient struct {
	baseURL string
	http    *http.Client
}

// NewHebcalClient creates a client for the converter at baseURL.
func NewHebcalClient(baseURL string) *HebcalClient {
	if baseURL == "" {
		baseURL = DefaultHebcalURL
	}
	return &HebcalClient{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// hebcalResponse is the JSON body returned by the converter in both
// directions.
type hebcalResponse struct {
	Gy     int      `json:"gy"`
	Gm     int      `json:"gm"`
	Gd     int      `json:"gd"`
	Hy     int      `json:"hy"`
	Hm     string   `json:"hm"`
	Hd     int      `json:"hd"`
	Events []string `json:"events"`
	Error  string   `json:"error"`
}

// DateToHebrew implements Oracle.
func (c *HebcalClient) DateToHebrew(ctx context.Context, day Day) (HebrewDate, error) {
	q := url.Values{}
	q.Set("cfg", "json")
	q.Set("gy", strconv.Itoa(day.Year()))
	q.Set("gm", strconv.Itoa(int(day.Month())))
	q.Set("gd", strconv.Itoa(day.DayOfMonth()))
	q.Set("g2h", "1")

	resp, err := c.get(ctx, q)
	if err != nil {
		return HebrewDate{}, err
	}

	month, ok := ParseMonth(resp.Hm)
	if !ok || resp.Hy == 0 || resp.Hd == 0 {
		return HebrewDate{}, fmt.Errorf("%w: unexpected month %q", ErrOracleUnavailable, resp.Hm)
	}

	events := TranslateEvents(resp.Events)
	if day.Weekday() == RestDay && !containsAny(events, "שבת") {
		// The converter only reports Shabbat when a parasha is requested.
		events = append([]string{"שבת קודש"}, events...)
	}
	return NewHebrewDate(resp.Hy, month, resp.Hd, events), nil
}

// HebrewToDate implements Oracle.
func (c *HebcalClient) HebrewToDate(ctx context.Context, year int, month HebrewMonth, day int) (Day, error) {
	resp, err := c.hebrewToGregorian(ctx, year, month, day)
	if err != nil {
		return Day{}, err
	}
	return NewDay(resp.Gy, time.Month(resp.Gm), resp.Gd), nil
}

// MonthLength implements Oracle. It asks for day 30 of the month; when the
// converter normalizes that into the following month, the month has 29 days.
func (c *HebcalClient) MonthLength(ctx context.Context, year int, month HebrewMonth) (int, error) {
	resp, err := c.hebrewToGregorian(ctx, year, month, 30)
	if err != nil {
		return 0, err
	}

	returned, ok := ParseMonth(resp.Hm)
	if ok && returned == month && resp.Hd == 30 {
		return 30, nil
	}
	return 29, nil
}

func (c *HebcalClient) hebrewToGregorian(ctx context.Context, year int, month HebrewMonth, day int) (*hebcalResponse, error) {
	q := url.Values{}
	q.Set("cfg", "json")
	q.Set("hy", strconv.Itoa(year))
	q.Set("hm", EnglishMonthName(year, month))
	q.Set("hd", strconv.Itoa(day))
	q.Set("h2g", "1")

	resp, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	if resp.Gy == 0 || resp.Gm == 0 || resp.Gd == 0 {
		return nil, fmt.Errorf("%w: empty gregorian date", ErrOracleUnavailable)
	}
	return resp, nil
}

func (c *HebcalClient) get(ctx context.Context, q url.Values) (*hebcalResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build hebcal request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("%w: status %d", ErrOracleUnavailable, res.StatusCode)
	}

	var body hebcalResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrOracleUnavailable, err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, body.Error)
	}
	return &body, nil
}

func containsAny(events []string, keyword string) bool {
	for _, e := range events {
		if strings.Contains(e, keyword) {
			return true
		}
	}
	return false
}
