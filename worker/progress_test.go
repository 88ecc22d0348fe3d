package worker

import (
	"testing"
)

func TestHubDeliversPerCampaign(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe(1)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(2)
	defer cancel2()

	hub.Publish(1, Progress{Sent: 1})

	select {
	case p := <-ch1:
		if p.Sent != 1 {
			t.Errorf("unexpected event %+v", p)
		}
	default:
		t.Fatal("subscriber of campaign 1 should have received the event")
	}

	select {
	case p := <-ch2:
		t.Fatalf("subscriber of campaign 2 should not receive events for campaign 1, got %+v", p)
	default:
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(1)
	defer cancel()

	// Overflow the subscriber buffer; Publish must drop, not block.
	for i := 0; i < 100; i++ {
		hub.Publish(1, Progress{Sent: i})
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	cancel()

	hub.Publish(1, Progress{Sent: 1})

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
}

func TestHubSinkFeedsSubscribers(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(3)
	defer cancel()

	sink := hub.Sink(3)
	sink(Progress{Done: true})

	select {
	case p := <-ch:
		if !p.Done {
			t.Errorf("expected done event, got %+v", p)
		}
	default:
		t.Fatal("sink should publish to subscribers")
	}
}
