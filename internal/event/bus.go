// Package event provides a pub/sub event system using watermill.
package event

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/telnet2/projactions/internal/logging"
)

// Subscriber is a function that receives events.
type Subscriber func(event Event)

// Bus is the event bus backed by a watermill GoChannel.
type Bus struct {
	mu     sync.RWMutex
	closed bool

	pubsub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
				Persistent:          false,
			},
			newLoggerAdapter(),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe registers fn for one event type. Returns an unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return func() {}
	}

	ctx, cancel := context.WithCancel(b.ctx)
	msgs, err := b.pubsub.Subscribe(ctx, string(eventType))
	if err != nil {
		cancel()
		logging.Error().Err(err).Str("type", string(eventType)).Msg("failed to subscribe")
		return func() {}
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range msgs {
			var e Event
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				logging.Warn().Err(err).Str("uuid", msg.UUID).Msg("dropping undecodable event")
				msg.Ack()
				continue
			}
			fn(e)
			msg.Ack()
		}
	}()
	return cancel
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(fn Subscriber) func() {
	var unsubs []func()
	for _, t := range Types() {
		unsubs = append(unsubs, b.Subscribe(t, fn))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Publish hands event to the subscribers of its type without waiting for them.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode event")
		return
	}
	msg := message.NewMessage(watermill.NewULID(), payload)
	if err := b.pubsub.Publish(string(event.Type), msg); err != nil {
		logging.Error().Err(err).Str("type", string(event.Type)).Msg("failed to publish event")
	}
}

// Close closes the bus and waits for every subscription to stop.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}
