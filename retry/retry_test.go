/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/issuecheck/retry"
)

func testConfig() retry.Config {
	return retry.Config{
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  10 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func TestDo_Success(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	result, err := retry.Do(context.Background(), testConfig(), "test_op", retry.IsTransient, func() (string, error) {
		attempts.Add(1)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected result %q, got %q", "ok", result)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestDo_SuccessAfterRateLimit(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	result, err := retry.Do(context.Background(), testConfig(), "test_op", retry.IsTransient, func() (string, error) {
		if attempts.Add(1) < 3 {
			return "", &retry.StatusError{Method: "GET", URL: "http://x", StatusCode: http.StatusTooManyRequests}
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "recovered" {
		t.Fatalf("expected result %q, got %q", "recovered", result)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDo_ExhaustedRetries(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	serverErr := &retry.StatusError{Method: "GET", URL: "http://x", StatusCode: http.StatusBadGateway}

	var attempts atomic.Int32
	_, err := retry.Do(context.Background(), cfg, "test_op", retry.IsTransient, func() (string, error) {
		attempts.Add(1)
		return "", serverErr
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if got := attempts.Load(); got != 4 {
		t.Fatalf("expected 4 attempts (1 initial + 3 retries), got %d", got)
	}
	if !errors.Is(err, serverErr) {
		t.Fatalf("expected wrapped error to contain original, got: %v", err)
	}
	expected := fmt.Sprintf("test_op failed after %d retries", cfg.MaxRetries)
	if got := err.Error(); got[:len(expected)] != expected {
		t.Fatalf("expected error to start with %q, got %q", expected, got)
	}
}

func TestDo_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()
	notFound := &retry.StatusError{Method: "GET", URL: "http://x", StatusCode: http.StatusNotFound}

	var attempts atomic.Int32
	_, err := retry.Do(context.Background(), testConfig(), "test_op", retry.IsTransient, func() (string, error) {
		attempts.Add(1)
		return "", notFound
	})
	if !errors.Is(err, notFound) {
		t.Fatalf("expected original error, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestDo_ZeroRetriesReturnsOriginal(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxRetries = 0
	serverErr := &retry.StatusError{StatusCode: http.StatusServiceUnavailable}

	_, err := retry.Do(context.Background(), cfg, "test_op", retry.IsTransient, func() (int, error) {
		return 0, serverErr
	})
	if err != serverErr {
		t.Fatalf("expected unwrapped original error, got %v", err)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.BaseBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retry.Do(ctx, cfg, "test_op", retry.IsTransient, func() (int, error) {
		return 0, &retry.StatusError{StatusCode: http.StatusTooManyRequests}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{&retry.StatusError{StatusCode: 429}, true},
		{&retry.StatusError{StatusCode: 500}, true},
		{&retry.StatusError{StatusCode: 503}, true},
		{&retry.StatusError{StatusCode: 404}, false},
		{&retry.StatusError{StatusCode: 401}, false},
		{fmt.Errorf("wrapped: %w", &retry.StatusError{StatusCode: 502}), true},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := retry.IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v): got %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	if err := retry.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := retry.DefaultConfig()
	bad.MaxRetries = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative retries")
	}
}
