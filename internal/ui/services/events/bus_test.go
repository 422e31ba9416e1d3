package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pinged struct{ n int }
type ponged struct{}

func TestBusDeliversByType(t *testing.T) {
	b := NewBus()
	var got []int
	b.Subscribe(EventType(pinged{}), func(e interface{}) { got = append(got, e.(pinged).n) })
	b.Subscribe(EventType(ponged{}), func(interface{}) { t.Fatal("wrong type delivered") })

	b.Publish(pinged{n: 1})
	b.Publish(pinged{n: 2})

	assert.Equal(t, []int{1, 2}, got)
}

func TestBusHandlerMaySubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	b.Subscribe(EventType(pinged{}), func(interface{}) {
		calls++
		b.Subscribe(EventType(pinged{}), func(interface{}) { calls++ })
	})

	b.Publish(pinged{})
	assert.Equal(t, 1, calls)
	b.Publish(pinged{})
	assert.Equal(t, 3, calls)
}

func TestNullBus(t *testing.T) {
	var b EventBus = &NullBus{}
	b.Subscribe("x", func(interface{}) { t.Fatal("null bus delivered") })
	b.Publish(pinged{})
}
