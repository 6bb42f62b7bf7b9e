package actions

import "strings"

// Name identifies a playable animation clip on the avatar. Names come from
// two disjoint sets: persistent states the avatar can stay in, and one-shot
// emotes that play once and then restore the current state.
type Name string

const (
	None Name = ""

	// Persistent states.
	Idle     Name = "Idle"
	Walking  Name = "Walking"
	Running  Name = "Running"
	Dance    Name = "Dance"
	Sitting  Name = "Sitting"
	Standing Name = "Standing"

	// One-shot emotes.
	Wave     Name = "Wave"
	Yes      Name = "Yes"
	No       Name = "No"
	ThumbsUp Name = "ThumbsUp"
	Punch    Name = "Punch"
	Jump     Name = "Jump"
)

// States lists the persistent states in a fixed order.
func States() []Name {
	return []Name{Idle, Walking, Running, Dance, Sitting, Standing}
}

// Emotes lists the one-shot emotes in a fixed order. The order matters for
// deterministic random selection under a seeded RNG.
func Emotes() []Name {
	return []Name{Wave, Yes, No, ThumbsUp, Punch, Jump}
}

var states = map[Name]bool{
	Idle:     true,
	Walking:  true,
	Running:  true,
	Dance:    true,
	Sitting:  true,
	Standing: true,
}

var emotes = map[Name]bool{
	Wave:     true,
	Yes:      true,
	No:       true,
	ThumbsUp: true,
	Punch:    true,
	Jump:     true,
}

func (n Name) IsState() bool {
	return states[n]
}

func (n Name) IsEmote() bool {
	return emotes[n]
}

func (n Name) Known() bool {
	return states[n] || emotes[n]
}

func (n Name) String() string {
	return string(n)
}

// Parse resolves a case-insensitive action name. The second return value is
// false for unknown names.
func Parse(s string) (Name, bool) {
	for _, n := range States() {
		if strings.EqualFold(s, string(n)) {
			return n, true
		}
	}
	for _, n := range Emotes() {
		if strings.EqualFold(s, string(n)) {
			return n, true
		}
	}
	return None, false
}
