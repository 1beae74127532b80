// Package identity defines the session boundary: a provider that yields the
// current (possibly nil) identity and notifies on changes.
package identity

import (
	"sync"

	"cetele-core/domain"
)

// Provider is implemented by the host application's session layer.
// Current returns nil while the user is anonymous. OnChange registers a
// callback fired on every identity transition; the returned func cancels
// the registration.
type Provider interface {
	Current() *domain.Identity
	OnChange(fn func(*domain.Identity)) (cancel func())
}

// MemoryProvider is a settable Provider for tests and for host apps that
// adapt their own session handling. Callbacks fire synchronously on Set.
type MemoryProvider struct {
	mu      sync.Mutex
	current *domain.Identity
	nextID  int
	subs    map[int]func(*domain.Identity)
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{subs: map[int]func(*domain.Identity){}}
}

func (p *MemoryProvider) Current() *domain.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	id := *p.current
	return &id
}

func (p *MemoryProvider) OnChange(fn func(*domain.Identity)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.nextID
	p.nextID++
	p.subs[key] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, key)
	}
}

// Set replaces the current identity and notifies subscribers. Passing nil
// signals a transition to guest.
func (p *MemoryProvider) Set(id *domain.Identity) {
	p.mu.Lock()
	p.current = id
	subs := make([]func(*domain.Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}
