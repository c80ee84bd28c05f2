package remote

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Dialer opens stores from descriptors. Memory stores are shared per
// name for the life of the Dialer.
type Dialer struct {
	logger *slog.Logger

	mu       sync.Mutex
	memories map[string]*MemoryStore
}

// NewDialer creates a Dialer.
func NewDialer(logger *slog.Logger) *Dialer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dialer{logger: logger, memories: make(map[string]*MemoryStore)}
}

// Dial connects to the store described by d.
func (d *Dialer) Dial(ctx context.Context, desc Descriptor) (Store, error) {
	if desc.IsMemory() {
		return d.Memory(strings.TrimPrefix(desc.URI, MemoryScheme)).Connect(), nil
	}
	store, err := DialMongo(ctx, desc, d.logger)
	if err != nil {
		return nil, err
	}
	d.logger.Info("connected to remote store", "database", desc.DatabaseName())
	return store, nil
}

// Memory returns the named in-process store, creating it on first use.
func (d *Dialer) Memory(name string) *MemoryStore {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.memories[name]; ok {
		return s
	}
	s := NewMemoryStore(name, d.logger)
	d.memories[name] = s
	return s
}
