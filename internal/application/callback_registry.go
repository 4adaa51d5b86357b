package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/google/uuid"
)

// CallbackHandler runs the action bound to a token once it is triggered.
type CallbackHandler[A any] func(ctx context.Context, action A, trigger domain.Trigger)

type pendingCallback[A any] struct {
	owner  domain.ActorID
	action A
}

// CallbackRegistry maps single-use tokens to pending actions and tracks
// which actor owns each token. A single mutex guards both tables.
type CallbackRegistry[A any] struct {
	mu      sync.Mutex
	pending map[domain.CallbackToken]pendingCallback[A]
	owners  map[domain.ActorID]map[domain.CallbackToken]struct{}

	handler  CallbackHandler[A]
	newToken func() domain.CallbackToken
	metrics  ports.Metrics
	logger   *slog.Logger
}

type CallbackOption func(*callbackOptions)

type callbackOptions struct {
	newToken func() domain.CallbackToken
	metrics  ports.Metrics
	logger   *slog.Logger
}

func WithTokenSource(fn func() domain.CallbackToken) CallbackOption {
	return func(o *callbackOptions) { o.newToken = fn }
}

func WithCallbackMetrics(m ports.Metrics) CallbackOption {
	return func(o *callbackOptions) { o.metrics = m }
}

func WithCallbackLogger(l *slog.Logger) CallbackOption {
	return func(o *callbackOptions) { o.logger = l }
}

func NewCallbackRegistry[A any](handler CallbackHandler[A], opts ...CallbackOption) *CallbackRegistry[A] {
	o := callbackOptions{
		newToken: NewCallbackToken,
		metrics:  ports.NopMetrics{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &CallbackRegistry[A]{
		pending:  map[domain.CallbackToken]pendingCallback[A]{},
		owners:   map[domain.ActorID]map[domain.CallbackToken]struct{}{},
		handler:  handler,
		newToken: o.newToken,
		metrics:  o.metrics,
		logger:   o.logger,
	}
}

// NewCallbackToken returns a random UUID token.
func NewCallbackToken() domain.CallbackToken {
	return domain.CallbackToken(uuid.NewString())
}

// ValidCallbackToken reports whether raw has the shape of a token.
func ValidCallbackToken(raw string) bool {
	if len(raw) != 36 {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}

func (r *CallbackRegistry[A]) Register(owner domain.ActorID, action A) domain.CallbackToken {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.newToken()
	for _, taken := r.pending[token]; taken; _, taken = r.pending[token] {
		token = r.newToken()
	}

	r.pending[token] = pendingCallback[A]{owner: owner, action: action}
	owned, ok := r.owners[owner]
	if !ok {
		owned = map[domain.CallbackToken]struct{}{}
		r.owners[owner] = owned
	}
	owned[token] = struct{}{}
	r.metrics.PendingCallbacks(len(r.pending))

	return token
}

// Trigger resolves token at most once. Unknown, already resolved, or foreign
// tokens are ignored and reported as false.
func (r *CallbackRegistry[A]) Trigger(ctx context.Context, token domain.CallbackToken, trigger domain.Trigger) bool {
	cb, ok := r.take(token, trigger.Actor.ID)
	if !ok {
		return false
	}

	r.run(ctx, token, cb.action, trigger)
	return true
}

func (r *CallbackRegistry[A]) take(token domain.CallbackToken, by domain.ActorID) (pendingCallback[A], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.pending[token]
	if !ok {
		return pendingCallback[A]{}, false
	}
	if cb.owner != by {
		r.logger.Debug("callback triggered by another actor", "owner", cb.owner, "actor", by)
		return pendingCallback[A]{}, false
	}

	r.forget(token, cb.owner)
	return cb, true
}

func (r *CallbackRegistry[A]) run(ctx context.Context, token domain.CallbackToken, action A, trigger domain.Trigger) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("callback action panicked", "token", token, "actor", trigger.Actor.ID, "panic", rec)
		}
	}()

	r.handler(ctx, action, trigger)
}

// Cancel drops specific tokens without running them.
func (r *CallbackRegistry[A]) Cancel(tokens ...domain.CallbackToken) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, token := range tokens {
		cb, ok := r.pending[token]
		if !ok {
			continue
		}
		r.forget(token, cb.owner)
		removed++
	}

	return removed
}

// CancelAll drops every token owned by actor without running them.
func (r *CallbackRegistry[A]) CancelAll(owner domain.ActorID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.owners[owner]
	for token := range owned {
		delete(r.pending, token)
	}
	delete(r.owners, owner)
	r.metrics.PendingCallbacks(len(r.pending))

	return len(owned)
}

// Pending counts the tokens still owned by actor.
func (r *CallbackRegistry[A]) Pending(owner domain.ActorID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.owners[owner])
}

func (r *CallbackRegistry[A]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// forget must be called with mu held.
func (r *CallbackRegistry[A]) forget(token domain.CallbackToken, owner domain.ActorID) {
	delete(r.pending, token)
	if owned, ok := r.owners[owner]; ok {
		delete(owned, token)
		if len(owned) == 0 {
			delete(r.owners, owner)
		}
	}
	r.metrics.PendingCallbacks(len(r.pending))
}
