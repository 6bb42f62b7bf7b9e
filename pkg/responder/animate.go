package responder

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-go-golems/marionette/pkg/actions"
)

// keywordFamilies maps generated-text keywords to emote suggestions. The
// scan order is fixed; the first matching family wins.
var keywordFamilies = []struct {
	Keywords []string
	Emote    actions.Name
}{
	{[]string{"wave", "hello", "hi"}, actions.Wave},
	{[]string{"yes", "agree", "correct"}, actions.Yes},
	{[]string{"no", "disagree", "wrong"}, actions.No},
	{[]string{"thumbs", "good", "great", "awesome"}, actions.ThumbsUp},
	{[]string{"punch", "power", "strong", "energy"}, actions.Punch},
}

// DefaultInjectionProbability is the chance of suggesting a random emote
// when no keyword matches, to keep the avatar visibly lively without the
// text generator knowing about animations.
const DefaultInjectionProbability = 0.3

// AnimationDeriver derives an emote suggestion from generated text. It is
// shared by all the generation backends.
type AnimationDeriver struct {
	mu          sync.Mutex
	rng         *rand.Rand
	probability float64
}

type DeriverOption func(*AnimationDeriver)

// WithDeriverRand makes the random injection deterministic for tests.
func WithDeriverRand(rng *rand.Rand) DeriverOption {
	return func(d *AnimationDeriver) {
		d.rng = rng
	}
}

func WithInjectionProbability(p float64) DeriverOption {
	return func(d *AnimationDeriver) {
		d.probability = p
	}
}

func NewAnimationDeriver(options ...DeriverOption) *AnimationDeriver {
	ret := &AnimationDeriver{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		probability: DefaultInjectionProbability,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Derive scans text case-insensitively for the keyword families in their
// fixed order. If nothing matches, it suggests a uniformly random emote with
// the configured probability, otherwise none.
func (d *AnimationDeriver) Derive(text string) actions.Name {
	lowered := strings.ToLower(text)

	for _, family := range keywordFamilies {
		for _, kw := range family.Keywords {
			if strings.Contains(lowered, kw) {
				return family.Emote
			}
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rng.Float64() < d.probability {
		emotes := actions.Emotes()
		return emotes[d.rng.Intn(len(emotes))]
	}

	return actions.None
}
