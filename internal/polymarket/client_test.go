package polymarket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string, maxRetries int) *Client {
	return NewClient(url, 5*time.Second, ClientConfig{
		MaxRetries:     maxRetries,
		RetryDelayBase: time.Millisecond,
	})
}

func TestFetchCatalog_RealAPIFormat(t *testing.T) {
	// The Gamma API returns a bare JSON array where outcomePrices and
	// outcomes are JSON STRINGS, not arrays, and volume is a decimal string.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Errorf("Expected path /markets, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("closed") != "false" {
			t.Errorf("Expected closed=false, got %s", query.Get("closed"))
		}
		if query.Get("limit") != "500" {
			t.Errorf("Expected limit=500, got %s", query.Get("limit"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "market-1",
				"question": "Will Bitcoin hit $200k in 2027?",
				"slug": "bitcoin-200k-2027",
				"outcomes": "[\"Yes\", \"No\"]",
				"outcomePrices": "[\"0.32\", \"0.68\"]",
				"volume": "1234567.89",
				"endDate": "2027-12-31T00:00:00Z",
				"description": "Resolves yes if BTC trades at or above $200,000.",
				"closed": false
			},
			{
				"id": "market-2",
				"question": "Will team Y win the championship?",
				"slug": "team-y-championship",
				"outcomes": "[\"No\", \"Yes\"]",
				"outcomePrices": "[\"0.40\", \"0.60\"]",
				"volumeNum": 50000,
				"closed": false
			}
		]`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	snapshot, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}

	if len(snapshot.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(snapshot.Records))
	}
	if snapshot.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}

	first := snapshot.Records[0]
	if first.Question != "Will Bitcoin hit $200k in 2027?" {
		t.Errorf("Unexpected question: %q", first.Question)
	}
	if first.YesPrice != 0.32 || first.NoPrice != 0.68 {
		t.Errorf("Expected prices (0.32, 0.68), got (%v, %v)", first.YesPrice, first.NoPrice)
	}
	if first.Volume != 1234567.89 {
		t.Errorf("Expected volume 1234567.89, got %v", first.Volume)
	}
	if first.EndDate.Year() != 2027 {
		t.Errorf("Expected end date in 2027, got %v", first.EndDate)
	}

	// Outcome labels decide the pair even when the order is reversed.
	second := snapshot.Records[1]
	if second.YesPrice != 0.60 || second.NoPrice != 0.40 {
		t.Errorf("Expected prices (0.60, 0.40), got (%v, %v)", second.YesPrice, second.NoPrice)
	}
	if second.Volume != 50000 {
		t.Errorf("Expected volume 50000, got %v", second.Volume)
	}
}

func TestFetchCatalog_DataWrappedResponse(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": "m1", "question": "Will it rain?"}]}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	snapshot, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}
	if len(snapshot.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(snapshot.Records))
	}
	if snapshot.Records[0].Question != "Will it rain?" {
		t.Errorf("Unexpected question: %q", snapshot.Records[0].Question)
	}
}

func TestFetchCatalog_PerRecordDefaulting(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// One complete record, one with nearly everything missing, one
		// undecodable entry, one with garbage prices.
		w.Write([]byte(`[
			{"id": "m1", "question": "Complete?", "outcomePrices": "[\"0.5\", \"0.5\"]"},
			{"question": "Sparse?"},
			42,
			{"id": "m3", "question": "Garbage prices?", "outcomePrices": "[\"abc\", \"def\"]"}
		]`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	snapshot, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}
	// The undecodable entry is dropped, everything else kept.
	if len(snapshot.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(snapshot.Records))
	}

	sparse := snapshot.Records[1]
	if sparse.Question != "Sparse?" {
		t.Errorf("Unexpected question: %q", sparse.Question)
	}
	if sparse.ID != "" || sparse.Slug != "" || sparse.Description != "" {
		t.Error("Expected missing string fields to default to empty")
	}
	if sparse.YesPrice != 0 || sparse.NoPrice != 0 || sparse.Volume != 0 {
		t.Error("Expected missing numeric fields to default to zero")
	}
	if sparse.Closed {
		t.Error("Expected missing closed flag to default to false")
	}
	if !sparse.EndDate.IsZero() {
		t.Error("Expected missing end date to default to zero time")
	}

	garbage := snapshot.Records[2]
	if garbage.YesPrice != 0 || garbage.NoPrice != 0 {
		t.Errorf("Expected unparseable prices to default to zero, got (%v, %v)",
			garbage.YesPrice, garbage.NoPrice)
	}
}

func TestFetchCatalog_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NotJSON", "definitely not json"},
		{"ScalarJSON", `"hello"`},
		{"ObjectWithoutData", `{"markets": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer mockServer.Close()

			client := testClient(mockServer.URL, 3)

			_, err := client.FetchCatalog(context.Background())
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedResponseError, got %v", err)
			}
		})
	}
}

func TestFetchCatalog_RetriesOn5xx(t *testing.T) {
	var calls int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	_, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
}

func TestFetchCatalog_RetriesExhausted(t *testing.T) {
	var calls int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	_, err := client.FetchCatalog(context.Background())
	var unavailable *RemoteUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Expected RemoteUnavailableError, got %v", err)
	}
	if unavailable.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", unavailable.Attempts)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
}

func TestFetchCatalog_TerminalStatusNotRetried(t *testing.T) {
	var calls int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	_, err := client.FetchCatalog(context.Background())
	var unavailable *RemoteUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Expected RemoteUnavailableError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 request (no retries on 404), got %d", got)
	}
}

func TestFetchCatalog_RateLimitRetried(t *testing.T) {
	var calls int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, 3)

	_, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 requests (one retry after 429), got %d", got)
	}
}

func TestFetchCatalog_ContextCancelledDuringBackoff(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, 5*time.Second, ClientConfig{
		MaxRetries:     3,
		RetryDelayBase: 10 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.FetchCatalog(ctx)
	if err == nil {
		t.Fatal("Expected error after cancellation")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Cancellation did not interrupt backoff, took %v", elapsed)
	}
}
