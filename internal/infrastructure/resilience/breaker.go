package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold uint32
	// Cooldown is how long the circuit stays open before a probe is let
	// through.
	Cooldown time.Duration
	// Probes is the number of successful half-open calls needed to close.
	Probes uint32
	// IsFailure decides whether an error counts against the circuit. Nil
	// counts every non-nil error.
	IsFailure func(error) bool
	// OnStateChange is called with the lock released.
	OnStateChange func(name string, from, to State)
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Breaker trips after consecutive failures and fails fast while open.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	failures   uint32
	successes  uint32
	inFlight   uint32
	openedAt   time.Time
	generation uint64
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool { return err != nil }
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	state, change := b.refresh()
	b.mu.Unlock()
	b.notify(change)
	return state
}

// Do runs fn unless the circuit is open. Errors from fn are returned as-is.
func (b *Breaker) Do(fn func() error) error {
	generation, err := b.admit()
	if err != nil {
		return err
	}

	defer func() {
		if e := recover(); e != nil {
			b.record(generation, true)
			panic(e)
		}
	}()

	err = fn()
	b.record(generation, b.settings.IsFailure(err))
	return err
}

type transition struct {
	from, to State
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	state, change := b.refresh()
	var err error
	switch {
	case state == StateOpen:
		err = ErrCircuitOpen
	case state == StateHalfOpen && b.inFlight >= b.settings.Probes:
		err = ErrTooManyRequests
	default:
		b.inFlight++
	}
	generation := b.generation
	b.mu.Unlock()

	b.notify(change)
	return generation, err
}

func (b *Breaker) record(generation uint64, failed bool) {
	b.mu.Lock()
	if generation != b.generation {
		// the circuit changed state while the call ran
		b.mu.Unlock()
		return
	}
	b.inFlight--

	var change *transition
	switch {
	case failed && b.state == StateHalfOpen:
		change = b.moveTo(StateOpen)
	case failed:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			change = b.moveTo(StateOpen)
		}
	case b.state == StateHalfOpen:
		b.successes++
		if b.successes >= b.settings.Probes {
			change = b.moveTo(StateClosed)
		}
	default:
		b.failures = 0
	}
	b.mu.Unlock()

	b.notify(change)
}

// refresh moves an expired open circuit to half-open. Callers hold mu.
func (b *Breaker) refresh() (State, *transition) {
	if b.state == StateOpen && !b.settings.Clock().Before(b.openedAt.Add(b.settings.Cooldown)) {
		return StateHalfOpen, b.moveTo(StateHalfOpen)
	}
	return b.state, nil
}

// moveTo switches state and starts a new generation. Callers hold mu.
func (b *Breaker) moveTo(state State) *transition {
	if b.state == state {
		return nil
	}
	t := &transition{from: b.state, to: state}
	b.state = state
	b.failures, b.successes, b.inFlight = 0, 0, 0
	b.generation++
	if state == StateOpen {
		b.openedAt = b.settings.Clock()
	}
	return t
}

func (b *Breaker) notify(t *transition) {
	if t != nil && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, t.from, t.to)
	}
}
