package event

import "testing"

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBus()

	var got []Event
	if _, err := b.Subscribe(TopicDocumentChanged, func(ev Event) {
		got = append(got, ev)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	b.Publish(DocumentChanged{Version: 2, Len: 5})

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	dc, ok := got[0].(DocumentChanged)
	if !ok || dc.Version != 2 {
		t.Errorf("delivered %#v", got[0])
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	b := NewBus()
	// Must not panic or block.
	b.Publish(HistoryChanged{CanUndo: true})
}

func TestDeliveryOrder(t *testing.T) {
	b := NewBus()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		b.Subscribe(TopicCursorMoved, func(Event) { order = append(order, i) })
	}

	b.Publish(CursorMoved{UserID: "u1"})

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("delivery order = %v, want [0 1 2]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()

	var count int
	sub, _ := b.Subscribe(TopicPresenceChanged, func(Event) { count++ })
	b.Publish(PresenceChanged{UserID: "u1", Active: true})
	b.Unsubscribe(sub)
	b.Publish(PresenceChanged{UserID: "u1", Active: false})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if n := b.SubscriberCount(TopicPresenceChanged); n != 0 {
		t.Errorf("SubscriberCount = %d, want 0", n)
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := NewBus()
	if _, err := b.Subscribe(TopicDocumentChanged, nil); err != ErrNilHandler {
		t.Errorf("nil handler err = %v, want ErrNilHandler", err)
	}
	if _, err := b.Subscribe("", func(Event) {}); err != ErrInvalidTopic {
		t.Errorf("empty topic err = %v, want ErrInvalidTopic", err)
	}
}

func TestTopicIsolation(t *testing.T) {
	b := NewBus()

	var docEvents, histEvents int
	b.Subscribe(TopicDocumentChanged, func(Event) { docEvents++ })
	b.Subscribe(TopicHistoryChanged, func(Event) { histEvents++ })

	b.Publish(DocumentChanged{})
	b.Publish(DocumentChanged{})
	b.Publish(HistoryChanged{})

	if docEvents != 2 || histEvents != 1 {
		t.Errorf("docEvents=%d histEvents=%d, want 2 and 1", docEvents, histEvents)
	}
}
