package pattern

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
)

// Rule is a single pattern entry: if the lowercased input contains any of
// the trigger keywords, one of the candidate replies is picked uniformly at
// random, along with an optional emote and expression.
type Rule struct {
	Keywords   []string
	Replies    []string
	Animations []actions.Name
	Expression *responder.Expression
}

// Strategy is the deterministic, offline, zero-latency response backend. It
// scans its rules in a fixed priority order (earlier rules shadow later
// ones) and never fails, which makes it the universal fallback target for
// the dispatcher.
type Strategy struct {
	mu       sync.Mutex
	rules    []Rule
	defaults []string
	rng      *rand.Rand
}

var _ responder.Strategy = (*Strategy)(nil)

type Option func(*Strategy)

func WithRules(rules []Rule) Option {
	return func(s *Strategy) {
		s.rules = rules
	}
}

func WithDefaultReplies(replies []string) Option {
	return func(s *Strategy) {
		s.defaults = replies
	}
}

// WithRand makes reply selection deterministic for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Strategy) {
		s.rng = rng
	}
}

func NewStrategy(options ...Option) *Strategy {
	ret := &Strategy{
		rules:    DefaultRules(),
		defaults: DefaultReplies(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Strategy) Name() string {
	return "pattern"
}

// Respond never suspends and never returns an error.
func (s *Strategy) Respond(
	_ context.Context,
	userMessage string,
	_ conversation.Conversation,
) (*responder.Result, error) {
	lowered := strings.ToLower(userMessage)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range s.rules {
		if !rule.matches(lowered) {
			continue
		}

		ret := &responder.Result{
			Text:       rule.Replies[s.rng.Intn(len(rule.Replies))],
			Expression: rule.Expression,
		}
		if len(rule.Animations) > 0 {
			ret.Animation = rule.Animations[s.rng.Intn(len(rule.Animations))]
		}
		return ret, nil
	}

	return &responder.Result{
		Text: s.defaults[s.rng.Intn(len(s.defaults))],
	}, nil
}

func (r Rule) matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
