package actions

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/events"
)

const (
	DefaultBlendDuration        = 500 * time.Millisecond
	DefaultRestoreBlendDuration = 500 * time.Millisecond
	DefaultExpressionResetDelay = 3 * time.Second
)

// Coordinator owns "what the avatar is doing right now". It holds the
// name-to-clip mapping built once when the model loads, tracks the current
// persistent state, and mediates blended transitions between actions.
//
// All transition bookkeeping (fade calls, watcher registration and
// replacement) happens as one synchronous step under the coordinator's lock,
// even though the visual fades play out over time on the render side.
type Coordinator struct {
	mu sync.Mutex

	clips map[Name]Clip
	rig   ExpressionRig

	current Name
	active  Clip

	blend        time.Duration
	restoreBlend time.Duration
	resetDelay   time.Duration

	// At most one outstanding emote watcher. Replaced, never stacked.
	cancelWatcher func()

	// At most one pending reset per expression name.
	resetTimers map[string]*time.Timer

	publisherManager *events.PublisherManager
	logger           zerolog.Logger
}

type CoordinatorOption func(*Coordinator)

func WithDefaultBlend(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.blend = d
	}
}

func WithRestoreBlend(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.restoreBlend = d
	}
}

func WithExpressionResetDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.resetDelay = d
	}
}

func WithInitialState(name Name) CoordinatorOption {
	return func(c *Coordinator) {
		if name.IsState() {
			c.current = name
		}
	}
}

func WithPublisherManager(pm *events.PublisherManager) CoordinatorOption {
	return func(c *Coordinator) {
		c.publisherManager = pm
	}
}

func WithLogger(logger zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator builds a coordinator over externally-owned clips. The clip
// map is treated as read-only after this call. The initial state's clip is
// played immediately if present.
func NewCoordinator(clips map[Name]Clip, rig ExpressionRig, options ...CoordinatorOption) *Coordinator {
	ret := &Coordinator{
		clips:        clips,
		rig:          rig,
		current:      Idle,
		blend:        DefaultBlendDuration,
		restoreBlend: DefaultRestoreBlendDuration,
		resetDelay:   DefaultExpressionResetDelay,
		resetTimers:  map[string]*time.Timer{},
		logger:       log.Logger,
	}

	for _, option := range options {
		option(ret)
	}

	if clip, ok := ret.clips[ret.current]; ok {
		clip.FadeIn(0)
		clip.Play()
		ret.active = clip
	}

	return ret
}

// Current returns the current persistent state. An emote in flight does not
// change it; only SetState does.
func (c *Coordinator) Current() Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetState transitions to a new persistent state with the given blend
// duration. Requesting the current state or an unknown name is a no-op.
// This is the only way the persistent state changes.
func (c *Coordinator) SetState(name Name, blend time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !name.IsState() {
		c.logger.Warn().Str("action", name.String()).Msg("unknown state requested, ignoring")
		return
	}
	if name == c.current {
		return
	}

	clip, ok := c.clips[name]
	if !ok {
		c.logger.Warn().Str("action", name.String()).Msg("no clip loaded for state, ignoring")
		return
	}

	previous := c.current
	c.crossFade(clip, blend)
	c.current = name

	c.logger.Debug().
		Str("previous", previous.String()).
		Str("current", name.String()).
		Dur("blend", blend).
		Msg("state transition")
	c.publishActionChanged(previous, name, false)
}

// PlayEmote plays a one-shot emote with the given blend duration and
// registers a watcher that restores the current persistent state when the
// emote completes. Requesting another emote before the first completes
// replaces the watcher; at most one restoration is ever outstanding.
func (c *Coordinator) PlayEmote(name Name, blend time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !name.IsEmote() {
		c.logger.Warn().Str("action", name.String()).Msg("unknown emote requested, ignoring")
		return
	}

	clip, ok := c.clips[name]
	if !ok {
		c.logger.Warn().Str("action", name.String()).Msg("no clip loaded for emote, ignoring")
		return
	}

	// Last request wins: replace, don't stack.
	if c.cancelWatcher != nil {
		c.cancelWatcher()
		c.cancelWatcher = nil
	}

	previous := c.current
	c.crossFade(clip, blend)

	c.cancelWatcher = clip.NotifyFinished(func() {
		c.restore()
	})

	c.logger.Debug().
		Str("emote", name.String()).
		Dur("blend", blend).
		Msg("emote started")
	c.publishActionChanged(previous, name, true)
}

// restore returns to the current persistent state after an emote completes.
func (c *Coordinator) restore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelWatcher = nil

	clip, ok := c.clips[c.current]
	if !ok {
		c.logger.Warn().Str("action", c.current.String()).Msg("no clip for restore target")
		return
	}

	c.crossFade(clip, c.restoreBlend)
	c.logger.Debug().Str("current", c.current.String()).Msg("restored state after emote")
}

// SetExpression applies a scalar influence immediately (no blending) and
// schedules a reset to zero after the configured delay. A new call for the
// same expression before the timeout cancels and replaces the pending reset.
func (c *Coordinator) SetExpression(name string, weight float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rig == nil {
		return
	}

	c.rig.SetInfluence(name, weight)
	c.publishExpression(name, weight)

	if timer, ok := c.resetTimers[name]; ok {
		timer.Stop()
	}
	c.resetTimers[name] = time.AfterFunc(c.resetDelay, func() {
		c.resetExpression(name)
	})
}

func (c *Coordinator) resetExpression(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.resetTimers, name)
	c.rig.SetInfluence(name, 0)
	c.publishExpression(name, 0)
}

// Stop cancels the outstanding emote watcher and all pending expression
// resets. The current state keeps playing.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelWatcher != nil {
		c.cancelWatcher()
		c.cancelWatcher = nil
	}
	for name, timer := range c.resetTimers {
		timer.Stop()
		delete(c.resetTimers, name)
	}
}

// crossFade is called with the lock held.
func (c *Coordinator) crossFade(to Clip, d time.Duration) {
	if c.active != nil && c.active != to {
		c.active.FadeOut(d)
	}
	to.FadeIn(d)
	to.Play()
	c.active = to
}

func (c *Coordinator) publishActionChanged(previous, current Name, emote bool) {
	if c.publisherManager == nil {
		return
	}
	c.publisherManager.PublishBlind(&events.EventActionChanged{
		Event:    events.NewEvent(events.EventTypeActionChanged),
		Previous: previous.String(),
		Current:  current.String(),
		Emote:    emote,
	})
}

func (c *Coordinator) publishExpression(name string, weight float64) {
	if c.publisherManager == nil {
		return
	}
	c.publisherManager.PublishBlind(&events.EventExpression{
		Event:  events.NewEvent(events.EventTypeExpression),
		Name:   name,
		Weight: weight,
	})
}
