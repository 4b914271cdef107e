// Package store wraps a raw key-value backend behind a JSON adapter that
// never fails loudly: unavailable backends turn every operation into a
// no-op, and corrupted payloads are deleted and reported absent.
package store

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Backend is the raw string key-value store the adapter sits on
// (in-memory for tests and single-process runs, Redis for shared state).
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

const probeKey = "__storage_probe__"

// Adapter serializes values as JSON into a Backend. All operations report
// success as a bool and never propagate backend or codec errors to callers.
type Adapter struct {
	backend Backend
	prefix  string
	log     *zap.SugaredLogger
}

func New(backend Backend, log *zap.SugaredLogger) *Adapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Adapter{backend: backend, log: log}
}

// WithPrefix returns a copy of the adapter scoped to a key namespace,
// so independent sessions never interleave writes.
func (a *Adapter) WithPrefix(prefix string) *Adapter {
	return &Adapter{backend: a.backend, prefix: a.prefix + prefix, log: a.log}
}

// Set marshals value and overwrites key. Returns false if the backend is
// unavailable or the write fails.
func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	if !a.available(ctx) {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		a.log.Warnw("storage marshal failed", "key", key, "err", err)
		return false
	}
	if err := a.backend.Set(ctx, a.prefix+key, string(data)); err != nil {
		a.log.Warnw("storage write failed", "key", key, "err", err)
		return false
	}
	return true
}

// Get unmarshals the value at key into dest. Empty, whitespace-only, and the
// literal "undefined"/"null" payloads count as absent. A payload that fails
// to parse is deleted so the slot heals itself.
func (a *Adapter) Get(ctx context.Context, key string, dest any) bool {
	if !a.available(ctx) {
		return false
	}
	raw, ok, err := a.backend.Get(ctx, a.prefix+key)
	if err != nil {
		a.log.Warnw("storage read failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "undefined" || trimmed == "null" {
		a.log.Warnw("ignoring invalid storage value", "key", key, "value", raw)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		a.log.Warnw("deleting corrupted storage value", "key", key, "err", err)
		_ = a.backend.Del(ctx, a.prefix+key)
		return false
	}
	return true
}

// Remove deletes key. Returns false if the backend is unavailable or the
// delete fails.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if !a.available(ctx) {
		return false
	}
	if err := a.backend.Del(ctx, a.prefix+key); err != nil {
		a.log.Warnw("storage delete failed", "key", key, "err", err)
		return false
	}
	return true
}

// available probes the backend with a write-then-delete of a sentinel key.
func (a *Adapter) available(ctx context.Context) bool {
	key := a.prefix + probeKey
	if err := a.backend.Set(ctx, key, "1"); err != nil {
		return false
	}
	if err := a.backend.Del(ctx, key); err != nil {
		return false
	}
	return true
}
