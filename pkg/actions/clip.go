package actions

import "time"

// Clip is an opaque handle to a playable animation clip. The rendering
// subsystem owns the clips and the frame loop; the coordinator only drives
// fades and playback on them.
type Clip interface {
	// Play starts (or restarts) the clip.
	Play()

	// FadeIn ramps the clip's influence up over the given duration.
	FadeIn(d time.Duration)

	// FadeOut ramps the clip's influence down over the given duration.
	FadeOut(d time.Duration)

	// NotifyFinished registers fn to run once when the clip naturally
	// completes a one-shot playthrough (loop-once, clamp-on-finish). fn is
	// delivered at most once. The returned function deregisters fn; calling
	// it after delivery is a no-op.
	NotifyFinished(fn func()) (cancel func())
}

// ExpressionRig applies scalar morph-target influences by name. Unknown
// expression names must be ignored by the implementation.
type ExpressionRig interface {
	SetInfluence(name string, weight float64)
}
