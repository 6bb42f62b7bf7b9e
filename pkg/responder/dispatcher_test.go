package responder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/events"
)

type stubStrategy struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (s *stubStrategy) Name() string {
	return s.name
}

func (s *stubStrategy) Respond(_ context.Context, _ string, _ conversation.Conversation) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestDispatchRoutesToSelectedStrategy(t *testing.T) {
	fallback := &stubStrategy{name: "pattern", result: &Result{Text: "fallback"}}
	remote := &stubStrategy{name: "remote", result: &Result{Text: "remote says hi"}}

	d := NewDispatcher(fallback)
	d.Register(remote)
	require.NoError(t, d.Select("remote"))

	result := d.Dispatch(context.Background(), "hi", nil)
	assert.Equal(t, "remote says hi", result.Text)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestDispatchFallsBackOnError(t *testing.T) {
	fallback := &stubStrategy{name: "pattern", result: &Result{Text: "pattern reply"}}
	failing := &stubStrategy{name: "broken", err: errors.New("transport exploded")}

	d := NewDispatcher(fallback)
	d.Register(failing)
	require.NoError(t, d.Select("broken"))

	result := d.Dispatch(context.Background(), "hi", nil)
	require.NotNil(t, result)
	assert.Equal(t, "pattern reply", result.Text)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestSelectUnknownStrategyFails(t *testing.T) {
	d := NewDispatcher(&stubStrategy{name: "pattern", result: &Result{}})
	assert.Error(t, d.Select("does-not-exist"))
	assert.Equal(t, "pattern", d.Selected())
}

func TestFallbackPublishesEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer func() {
		_ = pubSub.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "chat-events")
	require.NoError(t, err)

	pm := events.NewPublisherManager()
	pm.SubscribePublisher("chat-events", pubSub)

	fallback := &stubStrategy{name: "pattern", result: &Result{Text: "ok"}}
	failing := &stubStrategy{name: "broken", err: errors.New("no credential")}

	d := NewDispatcher(fallback, WithPublisherManager(pm))
	d.Register(failing)
	require.NoError(t, d.Select("broken"))

	d.Dispatch(ctx, "hi", nil)

	select {
	case msg := <-messages:
		var ev events.EventFallback
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, events.EventTypeFallback, ev.Type)
		assert.Equal(t, "broken", ev.Strategy)
		assert.Contains(t, ev.Reason, "no credential")
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("no fallback event received")
	}
}

// Two dispatches racing is accepted behavior: both run independently and
// apply in resolution order. The dispatcher must not deduplicate or queue.
func TestConcurrentDispatchesRunIndependently(t *testing.T) {
	fallback := &stubStrategy{name: "pattern", result: &Result{Text: "ok"}}

	slowCh := make(chan struct{})
	slow := &slowStrategy{name: "slow", release: slowCh}

	d := NewDispatcher(fallback)
	d.Register(slow)
	require.NoError(t, d.Select("slow"))

	first := make(chan *Result, 1)
	go func() {
		first <- d.Dispatch(context.Background(), "one", nil)
	}()

	// the second call resolves before the first is released
	require.NoError(t, d.Select("pattern"))
	second := d.Dispatch(context.Background(), "two", nil)
	assert.Equal(t, "ok", second.Text)

	close(slowCh)
	assert.Equal(t, "slow reply", (<-first).Text)
}

type slowStrategy struct {
	name    string
	release chan struct{}
}

func (s *slowStrategy) Name() string {
	return s.name
}

func (s *slowStrategy) Respond(ctx context.Context, _ string, _ conversation.Conversation) (*Result, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &Result{Text: "slow reply"}, nil
}
