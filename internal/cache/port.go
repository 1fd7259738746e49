// Package cache is the response cache used by the registry.
package cache

import (
	"context"
	"time"
)

// DefaultTTL applies when neither the handler nor the configuration chooses one.
const DefaultTTL = 300 * time.Second

// Port is the narrow key/value contract the engine depends on. Operational
// items (query responses) and configuration items live in separate namespaces.
// A miss is reported as ok=false with a nil error.
type Port interface {
	GetOperationalItem(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetOperationalItem(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetConfigItem(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetConfigItem(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop never hits and drops every write. Used when no store is configured.
type Noop struct{}

func (Noop) GetOperationalItem(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) SetOperationalItem(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (Noop) GetConfigItem(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) SetConfigItem(context.Context, string, []byte, time.Duration) error {
	return nil
}

// OrNoop returns p, or Noop when p is nil.
func OrNoop(p Port) Port {
	if p == nil {
		return Noop{}
	}
	return p
}
