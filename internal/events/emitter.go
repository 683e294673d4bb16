package events

import "context"

var Emit = func(ctx context.Context, name string, evt GenerationEvent) {}

// EnableLogEmitter routes events to the process log. Frontends replace this
// with their own transport via SetCustomEmitter.
func EnableLogEmitter() {
	Emit = func(ctx context.Context, name string, evt GenerationEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		logEvent(name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt GenerationEvent)) {
	if f == nil {
		Emit = func(context.Context, string, GenerationEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt GenerationEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}
