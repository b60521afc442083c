package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vrain/internal/logger"
)

// ErrNoAddr is returned when the shared preview cache is not configured.
var ErrNoAddr = errors.New("redis address is empty")

// ConnectOptions configures the preview cache client and how long New keeps
// trying to reach it.
type ConnectOptions struct {
	Addr         string
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // overall budget for the first successful ping
	RetryInterval  time.Duration // first pause between pings, doubled each attempt
	MaxWait        time.Duration // ceiling for the pause
	PingTimeout    time.Duration // budget of a single ping
	WarnThreshold  int           // failed attempts logged at warn before switching to error
}

func (o ConnectOptions) validate() error {
	if o.Addr == "" {
		return ErrNoAddr
	}
	var errs []error
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"ConnectTimeout", o.ConnectTimeout},
		{"RetryInterval", o.RetryInterval},
		{"MaxWait", o.MaxWait},
		{"PingTimeout", o.PingTimeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", p.name, p.d))
		}
	}
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

// backoff doubles the pause after every failed ping, capped at max.
type backoff struct {
	next time.Duration
	max  time.Duration
}

func (b *backoff) pause() time.Duration {
	d := b.next
	b.next = min(b.next*2, b.max)
	return d
}

// New returns a client for the shared preview cache once it answers PING.
// Failed pings are retried with exponential backoff until ConnectTimeout
// elapses or ctx is done.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		log.Error("invalid preview cache options", logger.Error(err))
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := waitForPing(ctx, client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitForPing(parent context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(parent, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to preview cache", logger.Duration("timeout", opts.ConnectTimeout))
	start := time.Now()
	b := backoff{next: opts.RetryInterval, max: opts.MaxWait}

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("preview cache reachable after retries",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("preview cache connected")
			}
			return nil
		}

		pause := b.pause()
		select {
		case <-ctx.Done():
			log.Error("preview cache unreachable",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", opts.ConnectTimeout),
				logger.Error(err))
			return fmt.Errorf("preview cache unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-time.After(pause):
		}

		fields := []logger.Field{
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", b.next),
			logger.Error(err),
		}
		if attempt <= opts.WarnThreshold {
			log.Warn("preview cache ping failed, retrying", fields...)
		} else {
			log.Error("preview cache still down, retrying", fields...)
		}
	}
}
