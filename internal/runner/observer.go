package runner

import "github.com/vovakirdan/tttarena/internal/engine"

// Observer is notified after every successful placement. Observers have no
// influence on the engine or the bot.
type Observer interface {
	ObserveStep(before, after engine.Snapshot)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(before, after engine.Snapshot)

// ObserveStep calls f.
func (f ObserverFunc) ObserveStep(before, after engine.Snapshot) {
	f(before, after)
}

// Multi fans a step out to several observers in order. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	return ObserverFunc(func(before, after engine.Snapshot) {
		for _, o := range observers {
			if o != nil {
				o.ObserveStep(before, after)
			}
		}
	})
}
