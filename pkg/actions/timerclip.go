package actions

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TimerClip is a headless Clip implementation for running the coordinator
// without a rendering subsystem. It fires its completion watcher after a
// fixed duration, which is enough for the CLI and for soak-testing emote
// restoration.
type TimerClip struct {
	mu       sync.Mutex
	name     Name
	duration time.Duration
	timer    *time.Timer

	watcher    func()
	generation uint64
}

var _ Clip = (*TimerClip)(nil)

func NewTimerClip(name Name, duration time.Duration) *TimerClip {
	return &TimerClip{
		name:     name,
		duration: duration,
	}
}

func (t *TimerClip) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()

	log.Trace().Str("clip", t.name.String()).Msg("play")

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.duration, t.fire)
}

func (t *TimerClip) FadeIn(d time.Duration) {
	log.Trace().Str("clip", t.name.String()).Dur("duration", d).Msg("fade in")
}

func (t *TimerClip) FadeOut(d time.Duration) {
	log.Trace().Str("clip", t.name.String()).Dur("duration", d).Msg("fade out")
}

func (t *TimerClip) NotifyFinished(fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	generation := t.generation
	t.watcher = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.generation == generation {
			t.watcher = nil
		}
	}
}

func (t *TimerClip) fire() {
	t.mu.Lock()
	fn := t.watcher
	t.watcher = nil
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
