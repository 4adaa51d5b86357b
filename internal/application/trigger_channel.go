package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
	"golang.org/x/time/rate"
)

const DefaultCallbackNamespace = "observe"

type Triggerer interface {
	Trigger(ctx context.Context, token domain.CallbackToken, trigger domain.Trigger) bool
}

// TriggerChannel recognises "/<namespace>:callback <token> [text]" messages
// and forwards them to the callback registry. Anything with the reserved
// prefix is consumed, valid or not.
type TriggerChannel struct {
	namespace string
	prefix    string
	callbacks Triggerer
	metrics   ports.Metrics
	logger    *slog.Logger

	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[domain.ActorID]*rate.Limiter
}

type TriggerChannelConfig struct {
	Namespace string
	// Rate and Burst bound how many callback messages one actor may send per
	// second. Rate zero disables limiting.
	Rate    float64
	Burst   int
	Metrics ports.Metrics
	Logger  *slog.Logger
}

func NewTriggerChannel(callbacks Triggerer, cfg TriggerChannelConfig) *TriggerChannel {
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" {
		namespace = DefaultCallbackNamespace
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ports.NopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &TriggerChannel{
		namespace: namespace,
		prefix:    "/" + namespace + ":callback",
		callbacks: callbacks,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		limit:     limit,
		burst:     cfg.Burst,
		limiters:  map[domain.ActorID]*rate.Limiter{},
	}
}

// Command is the message an actor sends to invoke token.
func (c *TriggerChannel) Command(token domain.CallbackToken) string {
	return CallbackCommand(c.namespace, token)
}

// Intercept reports whether message belonged to the trigger channel. When it
// did, a well-formed trigger has already been forwarded.
func (c *TriggerChannel) Intercept(ctx context.Context, actor domain.Actor, message string) bool {
	message = strings.TrimSpace(message)
	if !strings.HasPrefix(message, c.prefix) {
		return false
	}

	token, input, ok := c.parse(message)
	if !ok {
		c.drop(actor, "malformed")
		return true
	}
	if !c.allow(actor.ID) {
		c.drop(actor, "rate_limited")
		return true
	}

	if !c.callbacks.Trigger(ctx, token, domain.Trigger{Actor: actor, Input: input}) {
		c.drop(actor, "unknown_token")
	}

	return true
}

func (c *TriggerChannel) parse(message string) (domain.CallbackToken, string, bool) {
	rest, ok := strings.CutPrefix(message, c.prefix)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", "", false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || !ValidCallbackToken(fields[0]) {
		return "", "", false
	}

	input := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), fields[0]))
	return domain.CallbackToken(strings.ToLower(fields[0])), input, true
}

func (c *TriggerChannel) allow(actor domain.ActorID) bool {
	if c.limit == rate.Inf {
		return true
	}

	c.mu.Lock()
	limiter, ok := c.limiters[actor]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[actor] = limiter
	}
	c.mu.Unlock()

	return limiter.Allow()
}

// Forget releases per-actor state once the actor disconnects.
func (c *TriggerChannel) Forget(actor domain.ActorID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.limiters, actor)
}

func (c *TriggerChannel) drop(actor domain.Actor, reason string) {
	c.metrics.TriggerDropped(reason)
	c.logger.Debug("callback trigger dropped", "actor", actor.ID, "reason", reason)
}
