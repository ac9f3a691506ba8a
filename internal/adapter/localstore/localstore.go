// Package localstore persists client state between runs. It plays the
// role browser local storage plays in the original storefront: one
// shared key-value store with namespaced keys, best-effort writes, no
// transactions.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.LocalStore = (*Storage)(nil)

type Storage struct {
	db *leveldb.DB
}

func Open(path string) (Storage, error) {
	const op = "localstore.Open"
	log := slog.With("op", op)

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return Storage{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("local store is open", "path", path)
	return Storage{db}, nil
}

func (s Storage) Get(key string) (string, error) {
	const op = "Storage.Get"

	v, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", fmt.Errorf("%s: %q: %w", op, key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(v), nil
}

func (s Storage) Set(key, value string) error {
	const op = "Storage.Set"

	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Storage) Delete(key string) error {
	const op = "Storage.Delete"

	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Storage) GetJSON(key string, v any) error {
	const op = "Storage.GetJSON"

	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%s: %q: %w", op, key, err)
	}
	return nil
}

func (s Storage) SetJSON(key string, v any) error {
	const op = "Storage.SetJSON"

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %q: %w", op, key, err)
	}
	return s.Set(key, string(b))
}

func (s Storage) Close() {
	const op = "Storage.Close"
	log := slog.With("op", op)

	log.Info("closing local store...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("local store is closed")
}
