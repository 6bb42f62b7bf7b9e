package pattern

import (
	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/responder"
)

// DefaultRules returns the built-in rule table. Order is priority: earlier
// rules shadow later ones.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"hello", "hey", "hi ", "good morning", "good evening"},
			Replies: []string{
				"Hello there! Nice to see you!",
				"Hey! How are you doing today?",
				"Hi! I was hoping you'd stop by!",
			},
			Animations: []actions.Name{actions.Wave, actions.ThumbsUp},
			Expression: &responder.Expression{Name: "Happy", Weight: 0.7},
		},
		{
			Keywords: []string{"how are you", "how do you feel"},
			Replies: []string{
				"I'm doing great, thanks for asking!",
				"Feeling fantastic! Ready to dance if you are.",
			},
			Animations: []actions.Name{actions.ThumbsUp},
			Expression: &responder.Expression{Name: "Happy", Weight: 0.5},
		},
		{
			Keywords: []string{"your name", "who are you"},
			Replies: []string{
				"I'm your virtual avatar companion!",
				"They call me Marionette. Pleased to meet you!",
			},
			Animations: []actions.Name{actions.Wave},
		},
		{
			Keywords: []string{"dance", "dancing"},
			Replies: []string{
				"Watch my moves!",
				"I love dancing!",
			},
			Animations: []actions.Name{actions.Dance},
		},
		{
			Keywords: []string{"joke", "funny"},
			Replies: []string{
				"Why don't robots ever panic? They have nerves of steel!",
				"I would tell you a UDP joke, but you might not get it.",
			},
			Expression: &responder.Expression{Name: "Happy", Weight: 0.6},
		},
		{
			Keywords: []string{"thank", "thanks"},
			Replies: []string{
				"You're very welcome!",
				"Anytime!",
			},
			Animations: []actions.Name{actions.ThumbsUp},
		},
		{
			Keywords: []string{"bye", "goodbye", "see you"},
			Replies: []string{
				"Goodbye! Come back soon!",
				"See you later!",
			},
			Animations: []actions.Name{actions.Wave},
		},
		{
			Keywords: []string{"sad", "unhappy", "depressed"},
			Replies: []string{
				"I'm sorry to hear that. I'm here for you!",
				"Sending you a virtual hug.",
			},
			Expression: &responder.Expression{Name: "Sad", Weight: 0.6},
		},
	}
}

// DefaultReplies is the pool drawn from when no rule matches.
func DefaultReplies() []string {
	return []string{
		"That's interesting! Tell me more.",
		"I see! What else is on your mind?",
		"Hmm, let me think about that one.",
		"I'm not sure I follow, but I'm listening!",
	}
}
