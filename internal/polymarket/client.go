// Package polymarket implements the catalog fetcher against the Polymarket
// Gamma API. Each fetch is one GET for the full (capped) catalog of open
// markets, with bounded retries, exponential backoff, and lenient per-record
// parsing: a single bad record is dropped, never the whole batch.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rmorelli/polyseek/internal/logger"
	"github.com/rmorelli/polyseek/internal/models"
)

// maxPageSize is the page size requested from the Gamma API. The API caps
// what it returns regardless of the requested limit; no further pagination
// is attempted.
const maxPageSize = 500

// ClientConfig holds retry tuning for the Gamma client.
type ClientConfig struct {
	MaxRetries     int           // total attempts per fetch
	RetryDelayBase time.Duration // first step of the exponential backoff
}

// Client provides access to the Polymarket Gamma API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	delayBase  time.Duration
}

// NewClient creates a new Gamma API client. timeout bounds each individual
// HTTP request; zero or negative config fields fall back to defaults.
func NewClient(baseURL string, timeout time.Duration, cfg ClientConfig) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: cfg.MaxRetries,
		delayBase:  cfg.RetryDelayBase,
	}
}

// FetchCatalog retrieves the current catalog of open markets. It returns a
// *RemoteUnavailableError once the retry budget is exhausted and a
// *MalformedResponseError when the response body does not decode at the
// batch level.
func (c *Client) FetchCatalog(ctx context.Context) (models.CatalogSnapshot, error) {
	url := fmt.Sprintf("%s/markets?closed=false&limit=%d", c.baseURL, maxPageSize)

	body, err := c.doGet(ctx, url)
	if err != nil {
		return models.CatalogSnapshot{}, err
	}

	records, err := parseCatalog(body)
	if err != nil {
		return models.CatalogSnapshot{}, err
	}

	logger.Debug("Fetched %d markets from Gamma API", len(records))

	return models.CatalogSnapshot{
		Records:   records,
		FetchedAt: time.Now(),
	}, nil
}

// doGet performs the request with retry logic. Attempts are retried on
// connection errors, timeouts, 5xx, and 429 (honoring Retry-After when
// present); other rejections are terminal.
func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		body, retryAfter, retryable, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, &RemoteUnavailableError{Attempts: attempt + 1, Cause: lastErr}
		}
		if attempt == c.maxRetries-1 {
			break
		}

		delay := retryDelay(c.delayBase, attempt, retryAfter)
		logger.Warn("Gamma API request failed (attempt %d/%d), retrying in %v: %v",
			attempt+1, c.maxRetries, delay, err)
		if err := sleepContext(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	return nil, &RemoteUnavailableError{Attempts: c.maxRetries, Cause: lastErr}
}

// attempt issues one GET and classifies the outcome. retryAfter is non-zero
// only for a 429 response carrying a usable Retry-After header.
func (c *Client) attempt(ctx context.Context, url string) (body []byte, retryAfter time.Duration, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are transient.
		return nil, 0, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		}
		return nil, retryAfter, retryableStatus(resp.StatusCode),
			fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, true, fmt.Errorf("read response body: %w", err)
	}
	return body, 0, false, nil
}

// sleepContext waits for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// gammaMarket mirrors one record of the Gamma API wire format. Several fields
// are json.RawMessage because the API is inconsistent about types: outcome
// prices arrive as a JSON-encoded array inside a JSON string, and volume may
// be either a number or a decimal string.
type gammaMarket struct {
	ID            string          `json:"id"`
	Question      string          `json:"question"`
	Slug          string          `json:"slug"`
	Outcomes      json.RawMessage `json:"outcomes"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	VolumeNum     json.RawMessage `json:"volumeNum"`
	Volume        json.RawMessage `json:"volume"`
	EndDate       string          `json:"endDate"`
	Description   string          `json:"description"`
	Closed        bool            `json:"closed"`
}

// parseCatalog decodes the response body into market records. The body may
// be a bare JSON array or an object wrapping the array in a "data" field;
// anything else is malformed. Records that fail to decode individually are
// dropped so one bad record cannot invalidate the batch.
func parseCatalog(body []byte) ([]models.MarketRecord, error) {
	raw, err := splitRecords(body)
	if err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}

	records := make([]models.MarketRecord, 0, len(raw))
	for _, entry := range raw {
		var gm gammaMarket
		if err := json.Unmarshal(entry, &gm); err != nil {
			logger.Debug("Dropping undecodable market record: %v", err)
			continue
		}
		records = append(records, gm.toRecord())
	}
	return records, nil
}

func splitRecords(body []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, fmt.Errorf("body is neither a market array nor a data-wrapped object")
}

// toRecord converts a wire record to the domain model, defaulting every
// missing or unparseable field rather than rejecting the record.
func (gm gammaMarket) toRecord() models.MarketRecord {
	yes, no := parseOutcomePrices(gm.Outcomes, gm.OutcomePrices)

	volume := parseLooseFloat(gm.VolumeNum)
	if volume == 0 {
		volume = parseLooseFloat(gm.Volume)
	}

	var endDate time.Time
	if gm.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, gm.EndDate); err == nil {
			endDate = t
		}
	}

	return models.MarketRecord{
		ID:          gm.ID,
		Question:    gm.Question,
		Slug:        gm.Slug,
		YesPrice:    yes,
		NoPrice:     no,
		Volume:      volume,
		EndDate:     endDate,
		Description: gm.Description,
		Closed:      gm.Closed,
	}
}

// parseOutcomePrices extracts the Yes/No price pair. When the outcome labels
// are present they decide which price is which; otherwise the pair is taken
// positionally as (yes, no). Unparseable input yields (0, 0).
func parseOutcomePrices(outcomes, prices json.RawMessage) (yes, no float64) {
	vals := parseStringArray(prices)
	if len(vals) == 0 {
		return 0, 0
	}

	nums := make([]float64, len(vals))
	for i, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, 0
		}
		nums[i] = f
	}

	names := parseStringArray(outcomes)
	if len(names) == len(nums) {
		matched := false
		for i, name := range names {
			switch strings.ToLower(name) {
			case "yes":
				yes = nums[i]
				matched = true
			case "no":
				no = nums[i]
				matched = true
			}
		}
		if matched {
			return yes, no
		}
	}

	yes = nums[0]
	if len(nums) > 1 {
		no = nums[1]
	}
	return yes, no
}

// parseLooseFloat decodes a value that may be a JSON number or a decimal
// string. Anything else yields 0.
func parseLooseFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

// parseStringArray decodes a value that is either a JSON array of strings or
// a JSON string containing an encoded array (the Gamma API ships both).
func parseStringArray(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = []byte(inner)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
