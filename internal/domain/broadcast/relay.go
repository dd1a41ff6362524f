package broadcast

import (
	evbus "github.com/asaskevich/EventBus"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// Relay bridges the in-process event bus onto the hub so that business
// services never hold a hub reference. Services publish typed events on the
// bus; the relay forwards each one to the matching hub topic.
type Relay struct {
	bus evbus.Bus
	hub *Hub
}

// NewRelay wires the relay onto the given bus and hub.
func NewRelay(bus evbus.Bus, hub *Hub) *Relay {
	return &Relay{bus: bus, hub: hub}
}

// Attach registers the forwarding handlers.
func (r *Relay) Attach() error {
	const op = "broadcast.Relay.Attach"
	subs := []struct {
		event string
		fn    any
	}{
		{EventProductCreated, r.onProduct},
		{EventProductUpdated, r.onProduct},
		{EventProductDeleted, r.onProduct},
		{EventOrderCreated, r.onOrder},
		{EventOrderStatusChanged, r.onOrder},
		{EventSettingsUpdated, r.onSettings},
	}
	for _, s := range subs {
		if err := r.bus.SubscribeAsync(s.event, s.fn, false); err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, op, "subscribe "+s.event, err)
		}
	}
	return nil
}

// Detach removes the forwarding handlers.
func (r *Relay) Detach() {
	_ = r.bus.Unsubscribe(EventProductCreated, r.onProduct)
	_ = r.bus.Unsubscribe(EventProductUpdated, r.onProduct)
	_ = r.bus.Unsubscribe(EventProductDeleted, r.onProduct)
	_ = r.bus.Unsubscribe(EventOrderCreated, r.onOrder)
	_ = r.bus.Unsubscribe(EventOrderStatusChanged, r.onOrder)
	_ = r.bus.Unsubscribe(EventSettingsUpdated, r.onSettings)
}

// Wait blocks until in-flight async handlers finish. Used on shutdown and
// in tests.
func (r *Relay) Wait() {
	r.bus.WaitAsync()
}

func (r *Relay) onProduct(ev ProductEvent) {
	_ = r.hub.Publish(TopicProducts, ev)
}

func (r *Relay) onOrder(ev OrderEvent) {
	_ = r.hub.Publish(TopicOrders, ev)
	_ = r.hub.Publish(TopicAdmin, ev)
}

func (r *Relay) onSettings(ev SettingsEvent) {
	_ = r.hub.Publish(TopicProducts, ev)
	_ = r.hub.Publish(TopicAdmin, ev)
}
