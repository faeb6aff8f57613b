package animation

import "errors"

// ErrTimelineNotFound is returned by name-based timeline lookups.
var ErrTimelineNotFound = errors.New("timeline not found")

// Listener observes playback. index is the active mainline key.
type Listener interface {
	// OnStart is called when playback is started.
	OnStart(a *Animation, index int)
	// OnProgress is called whenever the active mainline key changes.
	OnProgress(a *Animation, index, total int)
	// OnEnd is called when a non-looping animation pauses on its last key.
	OnEnd(a *Animation, index int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Start    func(a *Animation, index int)
	Progress func(a *Animation, index, total int)
	End      func(a *Animation, index int)
}

func (l ListenerFuncs) OnStart(a *Animation, index int) {
	if l.Start != nil {
		l.Start(a, index)
	}
}

func (l ListenerFuncs) OnProgress(a *Animation, index, total int) {
	if l.Progress != nil {
		l.Progress(a, index, total)
	}
}

func (l ListenerFuncs) OnEnd(a *Animation, index int) {
	if l.End != nil {
		l.End(a, index)
	}
}
