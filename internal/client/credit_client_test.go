package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"insight-engine/internal/config"
	"insight-engine/internal/domain"
)

func newTestClient(t *testing.T, serverURL string, maxRetries int) *CreditClient {
	t.Helper()
	c := NewCreditClient(config.BureauConfig{
		BaseURL:    serverURL,
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		Timeout:    time.Second,
	})
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func creditRequest() domain.CreditCheckRequest {
	return domain.CreditCheckRequest{Email: "applicant@example.com", ExternalRef: "APP-42"}
}

func TestCheckCredit_SucceedsAfterTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":712,"risk_band":"B","enquiries_6m":2,"defaults":0,"open_loans":1,"trade_lines":4,"reference_id":"ref-1","timestamp":"2025-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	outcome := newTestClient(t, server.URL, 3).CheckCredit(context.Background(), creditRequest())

	assert.True(t, outcome.Success)
	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 3, outcome.RetryCount)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.NotNil(t, outcome.Report)
	assert.Equal(t, 712, outcome.Report.Score)
	assert.Equal(t, "B", outcome.Report.RiskBand)
}

func TestCheckCredit_PermanentFailureStopsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	outcome := newTestClient(t, server.URL, 3).CheckCredit(context.Background(), creditRequest())

	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 0, outcome.RetryCount)
	assert.Equal(t, http.StatusBadRequest, outcome.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckCredit_ExhaustsRetryBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	outcome := newTestClient(t, server.URL, 3).CheckCredit(context.Background(), creditRequest())

	assert.False(t, outcome.Success)
	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 3, outcome.RetryCount)
	assert.Equal(t, http.StatusServiceUnavailable, outcome.StatusCode)
	assert.Contains(t, outcome.ErrorMessage, "after 3 retries")
	assert.Contains(t, outcome.ErrorMessage, "503")
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestCheckCredit_NetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from now on

	outcome := newTestClient(t, server.URL, 2).CheckCredit(context.Background(), creditRequest())

	assert.False(t, outcome.Success)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 0, outcome.StatusCode)
}

func TestCheckCredit_RateLimitedIsTransient(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"score":650,"risk_band":"C","reference_id":"ref-2","timestamp":"2025-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	outcome := newTestClient(t, server.URL, 3).CheckCredit(context.Background(), creditRequest())

	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.RetryCount)
}

func TestCheckCredit_ContextCancellationStopsBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 5)
	c.sleep = sleepWithContext
	c.baseDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	outcome := c.CheckCredit(ctx, creditRequest())

	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Contains(t, outcome.ErrorMessage, "context canceled")
}

func TestBackoff_ExponentialWithBoundedJitter(t *testing.T) {
	c := NewCreditClient(config.BureauConfig{BaseDelay: time.Second, MaxRetries: 3})

	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<uint(attempt-1)) * time.Second
		for i := 0; i < 50; i++ {
			delay := c.backoff(attempt)
			assert.GreaterOrEqual(t, delay, base)
			assert.LessOrEqual(t, delay, time.Duration(float64(base)*1.3)+time.Millisecond)
		}
	}
}

func TestBackoff_CappedAtMaxDelay(t *testing.T) {
	c := NewCreditClient(config.BureauConfig{BaseDelay: 10 * time.Second})

	delay := c.backoff(10)

	assert.Equal(t, 30*time.Second, delay)
}
