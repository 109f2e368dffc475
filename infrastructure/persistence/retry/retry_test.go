package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/domain/order"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestExponentialBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 300*time.Millisecond, ExponentialBackoffWithJitter(3, cfg))

	cfg.JitterEnabled = true
	for i := 0; i < 50; i++ {
		d := ExponentialBackoffWithJitter(1, cfg)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"order conflict", order.NewConcurrentModificationError("o1"), true},
		{"wrapped conflict", fmt.Errorf("save: %w", order.ErrConcurrentModification), true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213}, true},
		{"mysql lock timeout", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"postgres deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, false},
		{"duplicate key", gorm.ErrDuplicatedKey, false},
		{"validation", order.NewMissingShippingFieldError("name"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}

	cfg.RetryOnConcurrentModification = false
	assert.False(t, IsRetryableError(order.ErrConcurrentModification, cfg))
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(context.Context) error {
			calls++
			if calls < 3 {
				return order.ErrConcurrentModification
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(context.Context) error {
			calls++
			return order.ErrConcurrentModification
		})
		assert.ErrorIs(t, err, order.ErrConcurrentModification)
		assert.Equal(t, DefaultConfig.MaxAttempts, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(context.Context) error {
			calls++
			return order.ErrInvalidOrderState
		})
		assert.ErrorIs(t, err, order.ErrInvalidOrderState)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ExecuteWithRetry(ctx, fastConfig(), func(context.Context) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("disabled runs once", func(t *testing.T) {
		cfg := fastConfig()
		cfg.Enabled = false
		calls := 0
		_ = ExecuteWithRetry(context.Background(), cfg, func(context.Context) error {
			calls++
			return order.ErrConcurrentModification
		})
		assert.Equal(t, 1, calls)
	})
}
