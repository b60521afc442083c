package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/vrain/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), testOptions(mr.Addr()), logger.New("error", false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Set() error = %v", err)
	}
}

func TestNewTimesOut(t *testing.T) {
	start := time.Now()
	_, err := New(context.Background(), testOptions("127.0.0.1:1"), logger.New("error", false))
	if err == nil {
		t.Fatal("New() error = nil, want timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, want about ConnectTimeout", elapsed)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{"empty addr", func(o *ConnectOptions) { o.Addr = "" }},
		{"connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{"max wait", func(o *ConnectOptions) { o.MaxWait = -1 }},
		{"ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{"warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("127.0.0.1:6379")
			tt.mutate(&opts)
			if _, err := New(context.Background(), opts, logger.New("error", false)); err == nil {
				t.Error("New() error = nil, want validation error")
			}
		})
	}

	opts := testOptions("")
	if _, err := New(context.Background(), opts, logger.New("error", false)); !errors.Is(err, ErrNoAddr) {
		t.Errorf("New() error = %v, want ErrNoAddr", err)
	}
}

func TestBackoffDoublesUpToMax(t *testing.T) {
	b := backoff{next: 10 * time.Millisecond, max: 35 * time.Millisecond}

	want := []time.Duration{10, 20, 35, 35}
	for i, w := range want {
		if got := b.pause(); got != w*time.Millisecond {
			t.Errorf("pause() #%d = %v, want %v", i, got, w*time.Millisecond)
		}
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := ConnectOptions{Addr: "localhost:6379"}.validate()
	if err == nil {
		t.Fatal("validate() error = nil, want errors")
	}
	for _, name := range []string{"ConnectTimeout", "RetryInterval", "MaxWait", "PingTimeout"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("validate() error = %q, want mention of %s", err, name)
		}
	}
}
