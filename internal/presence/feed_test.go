package presence

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingSink captures feed activity.
type recordingSink struct {
	mu      sync.Mutex
	content string
	added   []string
	removed []string
	updates []Update
}

func (s *recordingSink) AddParticipant(id, name, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, id)
}

func (s *recordingSink) RemoveParticipant(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
}

func (s *recordingSink) UpdateRemoteCursor(id string, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, Update{UserID: id, Offset: offset, Timestamp: time.Now()})
}

func (s *recordingSink) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *recordingSink) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func TestSimulatedFeedRegistersCollaborators(t *testing.T) {
	sink := &recordingSink{content: "hello world"}
	feed := NewSimulatedFeed(sink, 3, WithSeed(1), WithInterval(time.Hour))

	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer feed.Stop()

	if len(sink.added) != 3 {
		t.Errorf("registered %d collaborators, want 3", len(sink.added))
	}

	names := make(map[string]bool)
	for _, c := range feed.Collaborators() {
		if c.ID == "" || c.Name == "" || c.Color == "" {
			t.Errorf("incomplete collaborator: %+v", c)
		}
		names[c.ID] = true
	}
	if len(names) != 3 {
		t.Errorf("collaborator IDs not unique: %v", names)
	}
}

func TestSimulatedFeedEmitsUpdates(t *testing.T) {
	sink := &recordingSink{content: "some document content"}
	feed := NewSimulatedFeed(sink, 2, WithSeed(42), WithInterval(5*time.Millisecond))

	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.updateCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	feed.Stop()

	if sink.updateCount() < 3 {
		t.Fatalf("got %d updates, want at least 3", sink.updateCount())
	}

	known := make(map[string]bool)
	for _, c := range feed.Collaborators() {
		known[c.ID] = true
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, u := range sink.updates {
		if !known[u.UserID] {
			t.Errorf("update from unknown user %s", u.UserID)
		}
		if u.Offset < 0 || u.Offset > len(sink.content) {
			t.Errorf("offset %d outside [0, %d]", u.Offset, len(sink.content))
		}
	}
}

func TestSimulatedFeedStopDeregisters(t *testing.T) {
	sink := &recordingSink{content: "x"}
	feed := NewSimulatedFeed(sink, 2, WithSeed(7), WithInterval(time.Hour))

	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	feed.Stop()

	if len(sink.removed) != 2 {
		t.Errorf("deregistered %d collaborators, want 2", len(sink.removed))
	}
}

func TestSimulatedFeedEmptyDocument(t *testing.T) {
	sink := &recordingSink{content: ""}
	feed := NewSimulatedFeed(sink, 1, WithSeed(3), WithInterval(5*time.Millisecond))

	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for sink.updateCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	feed.Stop()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, u := range sink.updates {
		if u.Offset != 0 {
			t.Errorf("offset %d on empty document, want 0", u.Offset)
		}
	}
}

func TestSimulatedFeedCountBounds(t *testing.T) {
	sink := &recordingSink{}
	if n := len(NewSimulatedFeed(sink, -1).Collaborators()); n != 0 {
		t.Errorf("negative count gave %d collaborators", n)
	}
	if n := len(NewSimulatedFeed(sink, 100).Collaborators()); n != len(defaultIdentities) {
		t.Errorf("oversized count gave %d collaborators, want %d", n, len(defaultIdentities))
	}
}

func TestSimulatedFeedDoubleStart(t *testing.T) {
	sink := &recordingSink{content: "x"}
	feed := NewSimulatedFeed(sink, 1, WithSeed(5), WithInterval(time.Hour))

	if err := feed.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := feed.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	feed.Stop()

	if len(sink.added) != 1 {
		t.Errorf("collaborators registered %d times, want 1", len(sink.added))
	}
}

func TestSimulatedFeedContextCancel(t *testing.T) {
	sink := &recordingSink{content: "x"}
	feed := NewSimulatedFeed(sink, 1, WithSeed(9), WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	if err := feed.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sink.mu.Lock()
		n := len(sink.removed)
		sink.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("collaborator not deregistered after context cancel")
}
