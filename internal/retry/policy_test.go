package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	assert.NoError(t, p.Validate())
}

func TestNewPolicy(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	assert.Equal(t, ModeLinear, NewPolicy("weird", 0, 0, -1).Mode)
}

func TestDelay(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration // retries 1..n
	}{
		{"fixed", NewPolicy(ModeFixed, 100*time.Millisecond, 500*time.Millisecond, 3),
			[]time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond}},
		{"linear", NewPolicy(ModeLinear, 100*time.Millisecond, 250*time.Millisecond, 5),
			[]time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond}},
		{"exponential", NewPolicy(ModeExponential, 50*time.Millisecond, 160*time.Millisecond, 5),
			[]time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 160 * time.Millisecond}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, tt.policy.Delay(i+1), "retry %d", i+1)
			}
			assert.Zero(t, tt.policy.Delay(0))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 2)
	transient := ferrors.NetworkError("connection refused").Retryable().Build()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		v, err := Do(context.Background(), p, "connect", func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", transient
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up when exhausted", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), p, "connect", func(context.Context) (int, error) {
			calls++
			return 0, transient
		})
		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), p, "connect", func(context.Context) (int, error) {
			calls++
			return 0, errors.New("bad url")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := Do(ctx, NewPolicy(ModeFixed, time.Hour, time.Hour, 3), "connect", func(context.Context) (int, error) {
			calls++
			return 0, transient
		})
		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 1, calls)
	})
}
