// Package narration plays the guide character's pre-recorded narration.
//
// A [Manager] owns the single "currently playing" clip. Starting a clip
// always stops the previous one first, so at most one narration source is
// ever audible.
package narration

import "errors"

// ClipID identifies a narration clip.
type ClipID string

const (
	ClipFirstScene    ClipID = "firstScene"
	ClipBombing       ClipID = "boombing"
	ClipKnockOrScream ClipID = "knockOrScream"
	ClipHint          ClipID = "hint"
	ClipCorrect       ClipID = "correct"
	ClipWrong         ClipID = "wrong"
)

// Clips lists every narration clip the scene can request.
func Clips() []ClipID {
	return []ClipID{
		ClipFirstScene,
		ClipBombing,
		ClipKnockOrScream,
		ClipHint,
		ClipCorrect,
		ClipWrong,
	}
}

func (c ClipID) String() string { return string(c) }

var (
	// ErrUnknownClip is returned by players that have no audio for a clip.
	ErrUnknownClip = errors.New("unknown narration clip")
	ErrClosed      = errors.New("narration manager closed")
)
