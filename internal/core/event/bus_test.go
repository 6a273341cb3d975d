package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDispatchOrder(t *testing.T) {
	bus := NewBus(nil)

	var got []int
	bus.Subscribe("cart:refresh:completed", func(Detail) { got = append(got, 1) })
	bus.Subscribe("cart:refresh:completed", func(Detail) { got = append(got, 2) })
	bus.Subscribe("cart:refresh:completed", func(Detail) { got = append(got, 3) })

	bus.Publish("cart:refresh:completed", nil)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestBusDetailDelivered(t *testing.T) {
	bus := NewBus(nil)

	var got Detail
	bus.Subscribe(ProductVariantChange, func(d Detail) { got = d })
	bus.Publish(ProductVariantChange, Detail{"variantId": "gid://shopify/ProductVariant/1"})

	assert.Equal(t, "gid://shopify/ProductVariant/1", got["variantId"])
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	unsubscribe := bus.Subscribe("products:fetched", func(Detail) { calls++ })

	bus.Publish("products:fetched", nil)
	unsubscribe()
	bus.Publish("products:fetched", nil)

	assert.Equal(t, 1, calls)

	// Removing twice is harmless.
	unsubscribe()
}

func TestBusUnsubscribeKeepsOthers(t *testing.T) {
	bus := NewBus(nil)

	first, second := 0, 0
	unsubscribe := bus.Subscribe("cart:add:completed", func(Detail) { first++ })
	bus.Subscribe("cart:add:completed", func(Detail) { second++ })

	unsubscribe()
	bus.Publish("cart:add:completed", nil)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestBusPanicDoesNotStopDispatch(t *testing.T) {
	bus := NewBus(nil)

	reached := false
	bus.Subscribe("cart:clear:started", func(Detail) { panic("boom") })
	bus.Subscribe("cart:clear:started", func(Detail) { reached = true })

	bus.Publish("cart:clear:started", nil)

	assert.True(t, reached)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(nil)
	// No subscribers: the event is simply dropped.
	bus.Publish("cart:fetch:error", Detail{"error": "gone"})
}
