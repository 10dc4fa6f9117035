package audit

import (
	"context"
	"sync"

	"github.com/dndoverworld/server/model"
)

type pendingKey struct{}

type heldEntry struct {
	svc    *Service
	record *model.AuditLog
}

// Pending holds the entries of writes made inside a transaction until the
// transaction settles. Commit queues them; Discard drops them.
type Pending struct {
	parent  *Pending
	mu      sync.Mutex
	entries []heldEntry
}

// Hold returns a ctx under which audited writes are collected in the
// returned Pending instead of being queued. If ctx already carries a
// Pending, the new one commits into it.
func Hold(ctx context.Context) (context.Context, *Pending) {
	p := &Pending{parent: pendingFrom(ctx)}
	return context.WithValue(ctx, pendingKey{}, p), p
}

// WithPending attaches p to ctx. A nil p leaves ctx unchanged.
func WithPending(ctx context.Context, p *Pending) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, pendingKey{}, p)
}

func pendingFrom(ctx context.Context) *Pending {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(pendingKey{}).(*Pending)
	return p
}

func (p *Pending) add(svc *Service, record *model.AuditLog) {
	p.mu.Lock()
	p.entries = append(p.entries, heldEntry{svc: svc, record: record})
	p.mu.Unlock()
}

func (p *Pending) take() []heldEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.entries
	p.entries = nil
	return entries
}

// Len reports how many entries are held.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Commit releases the held entries: to the enclosing Pending for a nested
// transaction, otherwise to their services' queues.
func (p *Pending) Commit() {
	for _, e := range p.take() {
		if p.parent != nil {
			p.parent.add(e.svc, e.record)
			continue
		}
		e.svc.Log(e.record)
	}
}

// Discard drops the held entries.
func (p *Pending) Discard() {
	p.take()
}
