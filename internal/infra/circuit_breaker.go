package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards calls to the SMTP relay (Closed → Open → Half-Open). While the relay
// is down, email jobs fail fast and go back to the queue instead of holding a
// worker on a dial timeout.

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // requests flow
	CBOpen                    // tripped, fast-fail all requests
	CBHalfOpen                // probing, requests allowed until the verdict
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the CB is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip open (default: 5)
	SuccessThreshold int           // consecutive successes in half-open to close (default: 2)
	OpenTimeout      time.Duration // how long to stay open before probing (default: 30s)
	// OnStateChange, if set, is called (outside the lock) after every transition.
	OnStateChange func(from, to CBState)
}

// DefaultCBConfig returns the settings used for the mailer.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker is safe for concurrent use.
type CircuitBreaker struct {
	mu           sync.Mutex
	cfg          CircuitBreakerConfig
	state        CBState
	failures     int
	successes    int
	openedAt     time.Time
	now          func() time.Time
	pendingNotes []func()
}

// NewCircuitBreaker creates a CB in Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

// State returns the current state, moving open → half-open once the open
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	s := cb.currentLocked()
	notes := cb.drainLocked()
	cb.mu.Unlock()
	runAll(notes)
	return s
}

// Execute runs fn through the circuit breaker.
// Returns ErrCircuitOpen immediately if the CB is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	if err != nil {
		cb.onFailureLocked()
	} else {
		cb.onSuccessLocked()
	}
	notes := cb.drainLocked()
	cb.mu.Unlock()
	runAll(notes)
	return err
}

func (cb *CircuitBreaker) currentLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.setLocked(CBHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) onFailureLocked() {
	cb.failures++
	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.setLocked(CBOpen)
		}
	case CBHalfOpen:
		cb.setLocked(CBOpen)
	}
}

func (cb *CircuitBreaker) onSuccessLocked() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.setLocked(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) setLocked(to CBState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.failures, cb.successes = 0, 0
	if to == CBOpen {
		cb.openedAt = cb.now()
	}
	if hook := cb.cfg.OnStateChange; hook != nil {
		cb.pendingNotes = append(cb.pendingNotes, func() { hook(from, to) })
	}
}

func (cb *CircuitBreaker) drainLocked() []func() {
	n := cb.pendingNotes
	cb.pendingNotes = nil
	return n
}

func runAll(fns []func()) {
	for _, f := range fns {
		f()
	}
}
