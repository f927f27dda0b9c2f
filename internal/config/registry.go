package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
)

// ErrProviderNotRegistered is returned by [Registry.CreateSTT] when no
// factory has been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps STT provider names to their constructor functions. It is
// safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	stt map[string]func(ProviderEntry) (stt.Transcriber, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		stt: make(map[string]func(ProviderEntry) (stt.Transcriber, error)),
	}
}

// RegisterSTT registers an STT provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterSTT(name string, factory func(ProviderEntry) (stt.Transcriber, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stt[name] = factory
}

// CreateSTT instantiates a transcriber using the factory registered under
// entry.Name, wiring in the configured fallback chain when present.
// Returns [ErrProviderNotRegistered] if no factory exists for a name.
func (r *Registry) CreateSTT(entry ProviderEntry) (stt.Transcriber, error) {
	primary, err := r.createOne(entry)
	if err != nil {
		return nil, err
	}
	if entry.Fallback == nil {
		return primary, nil
	}

	secondary, err := r.CreateSTT(*entry.Fallback)
	if err != nil {
		return nil, err
	}
	return stt.NewFallback(primary, entry.Name, secondary, entry.Fallback.Name), nil
}

// createOne instantiates a single provider without its fallback chain.
func (r *Registry) createOne(entry ProviderEntry) (stt.Transcriber, error) {
	r.mu.RLock()
	factory, ok := r.stt[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: stt provider %q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
