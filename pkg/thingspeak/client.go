package thingspeak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrInvalidDay is returned for a day that is not YYYY-MM-DD
	ErrInvalidDay = errors.New("invalid day")
	// ErrBeforeEarliestDay is returned for days before the sensor existed
	ErrBeforeEarliestDay = errors.New("no data before earliest day")
	// ErrUnexpectedStatus is returned for non-2xx responses
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

const requestTimeFormat = "2006-01-02 15:04:05"

// Options configures a Client
type Options struct {
	BaseURL         string
	ChannelID       int
	RequestTimezone string
	EarliestDay     string
	Timeout         time.Duration
	HTTPClient      *http.Client
	Logger          *zap.SugaredLogger
}

// Client fetches one day of channel feed at a time
type Client struct {
	baseURL    string
	channelID  int
	requestTZ  *time.Location
	earliest   time.Time
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	logger     *zap.SugaredLogger
}

// NewClient validates opts and creates a Client
func NewClient(opts Options) (*Client, error) {
	if opts.RequestTimezone == "" {
		opts.RequestTimezone = "America/Los_Angeles"
	}
	loc, err := time.LoadLocation(opts.RequestTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading request timezone: %w", err)
	}

	var earliest time.Time
	if opts.EarliestDay != "" {
		earliest, err = time.ParseInLocation(time.DateOnly, opts.EarliestDay, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: earliest day %q", ErrInvalidDay, opts.EarliestDay)
		}
	}

	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "thingspeak",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			opts.Logger.Warnw("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/") + "/",
		channelID:  opts.ChannelID,
		requestTZ:  loc,
		earliest:   earliest,
		httpClient: opts.HTTPClient,
		circuit:    cb,
		logger:     opts.Logger,
	}, nil
}

// DayURL returns the feed URL covering day in the request timezone
func (c *Client) DayURL(day string) (string, error) {
	start, err := time.ParseInLocation(time.DateOnly, day, c.requestTZ)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidDay, day)
	}
	if !c.earliest.IsZero() && start.Before(c.earliest) {
		return "", fmt.Errorf("%w: %s is before %s", ErrBeforeEarliestDay, day, c.earliest.Format(time.DateOnly))
	}
	end := start.AddDate(0, 0, 1)

	params := url.Values{}
	params.Set("start", start.Format(requestTimeFormat))
	params.Set("end", end.Format(requestTimeFormat))
	params.Set("timezone", c.requestTZ.String())

	return c.baseURL + strconv.Itoa(c.channelID) + "/feed.json?" + params.Encode(), nil
}

// FetchDay requests one day of feed. There is no retry; a failing day is
// reported to the caller.
func (c *Client) FetchDay(ctx context.Context, day string) (*DayResponse, error) {
	u, err := c.DayURL(day)
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("fetching sensor day", "day", day, "url", u)

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", day, err)
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return Decode(day, body)
}

// Decode parses a raw feed body, as fetched or as read back from an archive
func Decode(day string, raw []byte) (*DayResponse, error) {
	var resp FieldResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding feed for %s: %w", day, err)
	}
	return &DayResponse{Day: day, Response: resp, Raw: raw}, nil
}
