/*
Package event carries reload triggers between the watcher, the host protocol
and the reconciler.

The bus is a thin layer over watermill's in-process gochannel Pub/Sub. Each
EventType is a topic; events are JSON encoded into watermill messages.

# Delivery

Every subscription owns one goroutine and handles one message at a time,
acking it after the handler returns. Events are triggers, not state: a handler
must re-read whatever it needs, and the relative order of events published
close together is not guaranteed. Publishing to a topic with no subscribers
drops the event.

# Usage

	bus := event.NewBus()
	defer bus.Close()

	unsub := bus.Subscribe(event.LocalChanged, func(e event.Event) {
		logging.Info().Str("path", e.Path).Msg("local config changed")
	})
	defer unsub()

	bus.Publish(event.Event{Type: event.LocalChanged, Path: path})

Close stops every subscription and waits for running handlers to return.
*/
package event
