package presence

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Update is one inbound cursor event from a remote participant.
type Update struct {
	UserID    string
	Offset    int
	Timestamp time.Time
}

// Sink receives participant lifecycle and cursor events.
// The session satisfies this interface.
type Sink interface {
	AddParticipant(id, name, color string)
	RemoveParticipant(id string)
	UpdateRemoteCursor(id string, offset int)
	Content() string
}

// Logger is the subset of the application logger the feed needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Feed delivers remote cursor updates to a sink.
type Feed interface {
	Start(ctx context.Context) error
	Stop()
}

// Collaborator is one simulated remote participant.
type Collaborator struct {
	ID    string
	Name  string
	Color string
}

// Default identities for simulated collaborators.
var defaultIdentities = []struct {
	name  string
	color string
}{
	{"Ada", "#e06c75"},
	{"Grace", "#98c379"},
	{"Alan", "#e5c07b"},
	{"Edsger", "#c678dd"},
	{"Barbara", "#56b6c2"},
}

// SimulatedFeed random-walks a set of fake collaborator cursors.
// It is a stand-in for a real synchronization channel.
type SimulatedFeed struct {
	mu            sync.Mutex
	sink          Sink
	logger        Logger
	interval      time.Duration
	collaborators []Collaborator
	rng           *rand.Rand
	cancel        context.CancelFunc
	done          chan struct{}
}

// SimulatedFeedOption configures a SimulatedFeed.
type SimulatedFeedOption func(*SimulatedFeed)

// WithInterval sets the tick interval between cursor updates.
func WithInterval(d time.Duration) SimulatedFeedOption {
	return func(f *SimulatedFeed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithSeed seeds the random walk. Intended for tests.
func WithSeed(seed int64) SimulatedFeedOption {
	return func(f *SimulatedFeed) {
		f.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the feed logger.
func WithLogger(l Logger) SimulatedFeedOption {
	return func(f *SimulatedFeed) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewSimulatedFeed creates a feed with count fake collaborators.
// Counts beyond the built-in identity list are truncated.
func NewSimulatedFeed(sink Sink, count int, opts ...SimulatedFeedOption) *SimulatedFeed {
	if count < 0 {
		count = 0
	}
	if count > len(defaultIdentities) {
		count = len(defaultIdentities)
	}

	f := &SimulatedFeed{
		sink:     sink,
		logger:   nopLogger{},
		interval: 2 * time.Second,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}

	for i := 0; i < count; i++ {
		f.collaborators = append(f.collaborators, Collaborator{
			ID:    uuid.NewString(),
			Name:  defaultIdentities[i].name,
			Color: defaultIdentities[i].color,
		})
	}

	return f
}

// Collaborators returns the simulated participants.
func (f *SimulatedFeed) Collaborators() []Collaborator {
	result := make([]Collaborator, len(f.collaborators))
	copy(result, f.collaborators)
	return result
}

// Start registers the collaborators and begins emitting updates until
// the context is cancelled or Stop is called.
func (f *SimulatedFeed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		return nil // already running
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})
	f.mu.Unlock()

	for _, c := range f.collaborators {
		f.sink.AddParticipant(c.ID, c.Name, c.Color)
	}
	f.logger.Info("presence feed started with %d collaborators", len(f.collaborators))

	go f.run(ctx)
	return nil
}

// run emits one random cursor update per tick.
func (f *SimulatedFeed) run(ctx context.Context) {
	defer close(f.done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for _, c := range f.collaborators {
				f.sink.RemoveParticipant(c.ID)
			}
			return
		case <-ticker.C:
			f.tick()
		}
	}
}

// tick moves one collaborator's cursor to a random offset.
func (f *SimulatedFeed) tick() {
	if len(f.collaborators) == 0 {
		return
	}

	f.mu.Lock()
	c := f.collaborators[f.rng.Intn(len(f.collaborators))]
	max := len(f.sink.Content())
	offset := 0
	if max > 0 {
		offset = f.rng.Intn(max + 1)
	}
	f.mu.Unlock()

	f.sink.UpdateRemoteCursor(c.ID, offset)
	f.logger.Debug("cursor update user=%s offset=%d", c.Name, offset)
}

// Stop halts the feed and deregisters the collaborators.
func (f *SimulatedFeed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.cancel = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// nopLogger discards all output.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
