package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher captures structured audit events. Synchronous by default; with
// an async buffer, Emit enqueues and a background goroutine appends, with
// Close draining whatever is still buffered.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox     chan Event
	closeOnce sync.Once
	done      chan struct{}

	mu     sync.RWMutex
	closed bool
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer switches the publisher to a buffered channel of the given
// size. When the buffer is full the event is dropped rather than blocking
// the caller.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

// WithLogger routes append failures and drops to the given logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.run()
	}
	return p
}

// Emit records an event. Best-effort: callers never fail on audit errors.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit append failed", "action", event.Action, "error", err)
			return err
		}
		return nil
	}

	// The read lock keeps Close from closing the inbox mid-send; a late
	// Emit after shutdown drops the event instead of panicking.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("audit publisher closed, dropping event", "action", event.Action)
		return nil
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
	}
	return nil
}

// Close drains the async buffer and stops the worker. Safe to call on a
// synchronous publisher and safe to call twice.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		if p.inbox == nil {
			return
		}
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Warn("audit append failed", "action", event.Action, "error", err)
		}
	}
}
