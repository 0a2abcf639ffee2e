package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyDo(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("400")

	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, []error{nil}, 1, nil},
		{"recovers", 3, []error{transient, transient, nil}, 3, nil},
		{"gives up", 2, []error{transient, transient, nil}, 2, transient},
		{"permanent stops", 3, []error{permanent, nil}, 1, permanent},
		{"zero attempts still runs once", 0, []error{nil}, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := Policy{Attempts: tt.attempts, Delay: time.Millisecond}
			err := p.Do(context.Background(), func(attempt int) error {
				if attempt != calls {
					t.Errorf("attempt = %d, want %d", attempt, calls)
				}
				calls++
				return tt.results[attempt]
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Policy{Attempts: 5, Delay: time.Hour}.Do(ctx, func(int) error {
		return &RetryableError{Err: errors.New("down")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: errors.New("flaky")}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("Retry() = %v after %d calls", err, calls)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		ok        bool
		notFound  bool
		retryable bool
	}{
		{200, true, false, false},
		{204, true, false, false},
		{404, false, true, false},
		{410, false, true, false},
		{403, false, false, false},
		{429, false, false, true},
		{500, false, false, true},
		{503, false, false, true},
	}
	for _, tt := range tests {
		err := CheckStatus(tt.code)
		if (err == nil) != tt.ok {
			t.Errorf("CheckStatus(%d) = %v", tt.code, err)
			continue
		}
		if got := errors.Is(err, ErrNotFound); got != tt.notFound {
			t.Errorf("CheckStatus(%d) not-found = %v", tt.code, got)
		}
		if got := IsRetryable(err); got != tt.retryable {
			t.Errorf("CheckStatus(%d) retryable = %v", tt.code, got)
		}
	}
}
