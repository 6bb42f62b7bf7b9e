package pattern

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/actions"
)

func TestHelloMatchesGreetingRule(t *testing.T) {
	s := NewStrategy(WithRand(rand.New(rand.NewSource(42))))

	greetings := DefaultRules()[0]

	for i := 0; i < 20; i++ {
		result, err := s.Respond(context.Background(), "well hello there", nil)
		require.NoError(t, err)
		assert.Contains(t, greetings.Replies, result.Text)
		assert.Contains(t, []actions.Name{actions.Wave, actions.ThumbsUp}, result.Animation)
		require.NotNil(t, result.Expression)
		assert.Equal(t, "Happy", result.Expression.Name)
	}
}

func TestEarlierRulesShadowLaterOnes(t *testing.T) {
	s := NewStrategy(
		WithRand(rand.New(rand.NewSource(1))),
		WithRules([]Rule{
			{Keywords: []string{"alpha"}, Replies: []string{"first"}},
			{Keywords: []string{"alpha", "beta"}, Replies: []string{"second"}},
		}),
	)

	result, err := s.Respond(context.Background(), "ALPHA and beta", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Text)
}

func TestNoMatchDrawsFromDefaultPool(t *testing.T) {
	s := NewStrategy(WithRand(rand.New(rand.NewSource(7))))

	result, err := s.Respond(context.Background(), "xyzzy plugh", nil)
	require.NoError(t, err)
	assert.Contains(t, DefaultReplies(), result.Text)
	assert.Equal(t, actions.None, result.Animation)
	assert.Nil(t, result.Expression)
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	s := NewStrategy(WithRand(rand.New(rand.NewSource(3))))

	result, err := s.Respond(context.Background(), "HELLO!", nil)
	require.NoError(t, err)
	assert.Contains(t, DefaultRules()[0].Replies, result.Text)
}
