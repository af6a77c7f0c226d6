// Package resilience bounds and retries calls to market, model and oracle
// upstreams, and sheds load from upstreams that keep failing.
package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BreakerState is the state of a circuit breaker.
type BreakerState int

const (
	// Closed lets calls through.
	Closed BreakerState = iota
	// Open rejects calls until the cool-down elapses.
	Open
	// HalfOpen lets a single trial call through to test recovery.
	HalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a breaker rejects a call.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// BreakerConfig controls when a breaker opens and how long it stays open.
type BreakerConfig struct {
	// FailureThreshold is the run of consecutive failures that opens the
	// breaker. Default: 5.
	FailureThreshold int
	// CoolDown is how long the breaker stays open. Default: 30s.
	CoolDown time.Duration
}

// Breaker is a consecutive-failure circuit breaker for one upstream.
type Breaker struct {
	name string
	cfg  BreakerConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	trial    bool

	now func() time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now}
}

// State returns the current state, reporting HalfOpen once an open
// breaker's cool-down has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && b.now().Sub(b.openedAt) >= b.cfg.CoolDown {
		return HalfOpen
	}
	return b.state
}

// Allow returns ErrCircuitOpen while the breaker is open. Once the
// cool-down elapses it admits one trial call; others are rejected until
// that call is recorded.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return nil
	case HalfOpen:
		if b.trial {
			return eris.Wrapf(ErrCircuitOpen, "resilience: %s: trial call in flight", b.name)
		}
		b.trial = true
		return nil
	}
	if b.now().Sub(b.openedAt) >= b.cfg.CoolDown {
		b.setState(HalfOpen)
		b.trial = true
		return nil
	}
	return eris.Wrapf(ErrCircuitOpen, "resilience: %s", b.name)
}

// Record feeds a call outcome into the breaker. Only failures that trip
// (per the caller's classification) count.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trial = false
	if !failed {
		b.failures = 0
		if b.state != Closed {
			b.setState(Closed)
		}
		return
	}

	b.failures++
	switch b.state {
	case HalfOpen:
		b.openedAt = b.now()
		b.setState(Open)
	case Closed:
		if b.failures >= b.cfg.FailureThreshold {
			b.openedAt = b.now()
			b.setState(Open)
		}
	}
}

func (b *Breaker) setState(to BreakerState) {
	from := b.state
	b.state = to
	zap.L().Info("resilience: breaker state change",
		zap.String("upstream", b.name),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
}
