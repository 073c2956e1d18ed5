package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "plain error", err: errors.New("boom"), want: true},
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "network fetch", err: NewFetchError("sheet", FetchNetwork, errors.New("reset")), want: true},
		{name: "api fetch", err: NewFetchError("sheet", FetchAPI, errors.New("403")), want: false},
		{name: "empty fetch", err: NewFetchError("sheet", FetchEmpty, nil), want: false},
		{name: "file error", err: NewFetchError("audit.csv", FetchIO, errors.New("denied")), want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "wrapped canceled", err: NewFetchError("sheet", FetchNetwork, context.Canceled), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("transient")
		}, opts)
		require.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent fetch error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return NewFetchError("sheet", FetchAPI, errors.New("not found"))
		}, opts)
		require.ErrorIs(t, err, ErrFetch)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the fetch was canceled", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return context.Canceled
		}, opts)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error { return errors.New("transient") },
			service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSchemaError(t *testing.T) {
	err := error(&SchemaError{Rows: 1})
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "got 1")
}

func TestUserError(t *testing.T) {
	inner := errors.New("parse failure")
	err := NewUserError("invalid --from", inner)
	assert.Equal(t, "invalid --from: parse failure", err.Error())
	assert.ErrorIs(t, err, inner)
}
