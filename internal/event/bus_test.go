package event

import (
	"testing"
	"time"
)

func TestBus_FanOutInOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "first:"+e.Type) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+e.Type) })

	bus.Publish(Event{
		Type:      TypeValidated,
		UserID:    "u1",
		Source:    "front_door",
		Timestamp: time.Now().UTC(),
	})

	if len(got) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(got))
	}
	if got[0] != "first:credential_validated" || got[1] != "second:credential_validated" {
		t.Errorf("delivery order wrong: %v", got)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(Event{Type: TypeFailed})
}
