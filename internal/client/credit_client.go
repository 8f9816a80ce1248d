package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"insight-engine/internal/config"
	"insight-engine/internal/domain"
	"insight-engine/pkg/logger"
)

// CreditClient performs credit-check calls against an unreliable bureau with
// bounded, classified retries. One logical call per CheckCredit invocation;
// independent calls share no mutable state and may run in parallel.
type CreditClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	jitter     func() float64
}

func NewCreditClient(cfg config.BureauConfig) *CreditClient {
	return &CreditClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		maxDelay:   30 * time.Second,
		sleep:      sleepWithContext,
		jitter:     func() float64 { return rand.Float64() * 0.3 },
	}
}

// CheckCredit executes one logical credit check. Attempt 0 fires immediately;
// each transient failure sleeps a jittered exponential backoff before the
// next attempt, up to maxRetries additional attempts. All failure modes are
// reported through the returned outcome, never as a raised error.
func (c *CreditClient) CheckCredit(ctx context.Context, req domain.CreditCheckRequest) *domain.CreditCheckOutcome {
	start := time.Now()
	outcome := &domain.CreditCheckOutcome{}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			logger.GetLogger().WithFields(map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("Credit check retrying")

			if err := c.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		outcome.Attempts = attempt + 1
		report, status, err := c.doRequest(ctx, req)
		outcome.StatusCode = status
		if err == nil {
			outcome.Success = true
			outcome.Report = report
			break
		}
		lastErr = err

		var integrationErr *domain.IntegrationError
		if errors.As(err, &integrationErr) && !integrationErr.Transient {
			break
		}
	}

	outcome.RetryCount = outcome.Attempts - 1
	outcome.Elapsed = time.Since(start)

	if !outcome.Success && lastErr != nil {
		outcome.ErrorMessage = fmt.Sprintf("credit check failed after %d retries: %v", outcome.RetryCount, lastErr)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"success":     outcome.Success,
		"status_code": outcome.StatusCode,
		"attempts":    outcome.Attempts,
		"elapsed_ms":  outcome.Elapsed.Milliseconds(),
	}).Info("Credit check completed")

	return outcome
}

func (c *CreditClient) doRequest(ctx context.Context, req domain.CreditCheckRequest) (*domain.CreditReport, int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, &domain.IntegrationError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/credit-checks", bytes.NewReader(body))
	if err != nil {
		return nil, 0, &domain.IntegrationError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No status at all: network-level failure, always retryable
		return nil, 0, &domain.IntegrationError{Transient: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var report domain.CreditReport
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			return nil, resp.StatusCode, &domain.IntegrationError{
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("decoding bureau response: %w", err),
			}
		}
		return &report, resp.StatusCode, nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, resp.StatusCode, &domain.IntegrationError{
		StatusCode: resp.StatusCode,
		Transient:  isTransientStatus(resp.StatusCode),
		Err:        fmt.Errorf("bureau returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
	}
}

// backoff returns the delay before attempt k (k >= 1):
// min(baseDelay * 2^(k-1) * (1 + U(0,0.3)), maxDelay)
func (c *CreditClient) backoff(attempt int) time.Duration {
	delay := float64(c.baseDelay) * math.Pow(2, float64(attempt-1)) * (1 + c.jitter())
	if delay > float64(c.maxDelay) {
		delay = float64(c.maxDelay)
	}
	return time.Duration(delay)
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
