package events

import "github.com/koscakluka/ema-rescue/core/narration"

const (
	// KindNarrationStarted identifies a narration clip starting.
	KindNarrationStarted Kind = "narration.started"
	// KindNarrationFinished identifies a clip that played to the end.
	KindNarrationFinished Kind = "narration.finished"
	// KindNarrationStopped identifies a clip cut off before its end.
	KindNarrationStopped Kind = "narration.stopped"
)

type NarrationStarted struct {
	Base
	Handle  narration.Handle
	Overlay bool
}

func NewNarrationStarted(handle narration.Handle, overlay bool) NarrationStarted {
	return NarrationStarted{Base: NewBase(KindNarrationStarted), Handle: handle, Overlay: overlay}
}

type NarrationFinished struct {
	Base
	Handle narration.Handle
}

func NewNarrationFinished(handle narration.Handle) NarrationFinished {
	return NarrationFinished{Base: NewBase(KindNarrationFinished), Handle: handle}
}

type NarrationStopped struct {
	Base
	Handle narration.Handle
}

func NewNarrationStopped(handle narration.Handle) NarrationStopped {
	return NarrationStopped{Base: NewBase(KindNarrationStopped), Handle: handle}
}
