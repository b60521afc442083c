package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/MrSnakeDoc/vrain/internal/logger"
)

// tokenKey mirrors the browser client's localStorage key.
var tokenKey = []byte("token")

// BadgerStore keeps the session in an embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	log logger.Logger
}

// OpenBadger opens (or creates) the session database in dir.
func OpenBadger(dir string, log logger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log: log.With(logger.String("component", "badger"))}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db at %s: %w", dir, err)
	}
	log.Debug("session db opened", logger.String("path", dir))

	return &BadgerStore{db: db, log: log}, nil
}

// Close releases the database.
func (b *BadgerStore) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close session db: %w", err)
	}
	return nil
}

func (b *BadgerStore) LoadToken(_ context.Context) (string, error) {
	var token []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		token, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(token), nil
}

func (b *BadgerStore) SaveToken(_ context.Context, token string) error {
	if token == "" {
		return b.ClearToken(context.Background())
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

func (b *BadgerStore) ClearToken(_ context.Context) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// badgerLogger routes Badger's internal logs to our logger.
// Badger is chatty at info level, so it is demoted to debug.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.log.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warnf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.log.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.log.Debugf(f, v...) }
