package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Factory opens a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

// DefaultConnectTimeout is used when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register registers (or replaces) the Factory for kind. It is typically
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[kind] = f
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository using the Factory registered for cfg.Kind. Every
// failure, including an unknown kind, is returned as *ConnectError.
func New(ctx context.Context, cfg Config) (Repository, error) {
	factoriesMu.RLock()
	f, ok := factories[cfg.Kind]
	factoriesMu.RUnlock()
	if !ok {
		return nil, &ConnectError{Kind: cfg.Kind, Err: fmt.Errorf("unknown storage kind (registered: %v)", Kinds())}
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	repo, err := f(ctx, cfg)
	if err != nil {
		return nil, &ConnectError{Kind: cfg.Kind, Err: err}
	}
	return repo, nil
}
