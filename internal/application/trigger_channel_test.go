package application

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type droppedTriggers struct {
	ports.NopMetrics
	mu      sync.Mutex
	reasons []string
}

func (d *droppedTriggers) TriggerDropped(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reasons = append(d.reasons, reason)
}

func TestTriggerChannelForwardsTokenAndInput(t *testing.T) {
	var got []domain.Trigger
	callbacks := NewCallbackRegistry(func(_ context.Context, _ int, trigger domain.Trigger) {
		got = append(got, trigger)
	})
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{})

	token := callbacks.Register(poi.ID, 1)
	command := channel.Command(token)
	require.Equal(t, "/observe:callback "+string(token), command)

	assert.True(t, channel.Intercept(context.Background(), poi, command+"   a mossy boulder "))
	require.Len(t, got, 1)
	assert.Equal(t, poi, got[0].Actor)
	assert.Equal(t, "a mossy boulder", got[0].Input)
}

func TestTriggerChannelIgnoresOtherMessages(t *testing.T) {
	callbacks := NewCallbackRegistry(func(context.Context, int, domain.Trigger) {})
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{Namespace: "notes"})

	assert.False(t, channel.Intercept(context.Background(), poi, "hello there"))
	assert.False(t, channel.Intercept(context.Background(), poi, "/observe:callback "+string(NewCallbackToken())))
}

func TestTriggerChannelConsumesMalformedMessages(t *testing.T) {
	metrics := &droppedTriggers{}
	callbacks := NewCallbackRegistry(func(context.Context, int, domain.Trigger) {
		t.Fatal("malformed trigger must not run an action")
	})
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{Metrics: metrics})
	token := callbacks.Register(poi.ID, 1)

	for _, message := range []string{
		"/observe:callback",
		"/observe:callback not-a-token",
		"/observe:callbackx " + string(token),
		"/observe:callback" + string(token),
	} {
		assert.True(t, channel.Intercept(context.Background(), poi, message), message)
	}

	assert.Equal(t, []string{"malformed", "malformed", "malformed", "malformed"}, metrics.reasons)
	assert.Equal(t, 1, callbacks.Pending(poi.ID))
}

func TestTriggerChannelAcceptsUppercaseToken(t *testing.T) {
	ran := false
	callbacks := NewCallbackRegistry(func(context.Context, int, domain.Trigger) { ran = true })
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{})
	token := callbacks.Register(poi.ID, 1)

	assert.True(t, channel.Intercept(context.Background(), poi, "/observe:callback "+strings.ToUpper(string(token))))
	assert.True(t, ran)
}

func TestTriggerChannelRateLimitsPerActor(t *testing.T) {
	metrics := &droppedTriggers{}
	runs := 0
	callbacks := NewCallbackRegistry(func(context.Context, int, domain.Trigger) { runs++ })
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{Rate: 0.001, Burst: 1, Metrics: metrics})

	first := callbacks.Register(poi.ID, 1)
	second := callbacks.Register(poi.ID, 2)
	other := callbacks.Register(kiwi.ID, 3)

	assert.True(t, channel.Intercept(context.Background(), poi, channel.Command(first)))
	assert.True(t, channel.Intercept(context.Background(), poi, channel.Command(second)))
	assert.True(t, channel.Intercept(context.Background(), kiwi, channel.Command(other)))

	assert.Equal(t, 2, runs)
	assert.Equal(t, []string{"rate_limited"}, metrics.reasons)
	assert.Equal(t, 1, callbacks.Pending(poi.ID))

	channel.Forget(poi.ID)
	assert.True(t, channel.Intercept(context.Background(), poi, channel.Command(second)))
	assert.Equal(t, 3, runs)
}

func TestTriggerChannelCountsUnknownTokens(t *testing.T) {
	metrics := &droppedTriggers{}
	callbacks := NewCallbackRegistry(func(context.Context, int, domain.Trigger) {})
	channel := NewTriggerChannel(callbacks, TriggerChannelConfig{Metrics: metrics})

	assert.True(t, channel.Intercept(context.Background(), poi, channel.Command(NewCallbackToken())))
	assert.Equal(t, []string{"unknown_token"}, metrics.reasons)
}
