package integrations

import (
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// Breakers holds one circuit breaker per upstream host. A breaker trips after
// a run of consecutive transport failures and half-opens again on an
// exponential schedule, so a dead registry turns hundreds of slow timeouts
// into immediate "not found" results.
//
// A nil *Breakers disables circuit breaking.
type Breakers struct {
	threshold int64
	initial   time.Duration

	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

// NewBreakers creates a breaker set that trips after threshold consecutive
// failures and waits at least initial before trying the host again. Any
// success resets the count.
func NewBreakers(threshold int64, initial time.Duration) *Breakers {
	return &Breakers{
		threshold: threshold,
		initial:   initial,
		breakers:  make(map[string]*circuit.Breaker),
	}
}

func (b *Breakers) forHost(host string) *circuit.Breaker {
	if b == nil {
		return nil
	}

	b.mu.RLock()
	br, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return br
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if br, ok := b.breakers[host]; ok {
		return br
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.initial
	bo.MaxInterval = 5 * time.Minute
	bo.Multiplier = 2.0
	bo.Reset()

	br = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    bo,
		ShouldTrip: circuit.ConsecutiveTripFunc(b.threshold),
	})
	b.breakers[host] = br
	return br
}

// States returns "open" or "closed" for every host seen so far.
func (b *Breakers) States() map[string]string {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, br := range b.breakers {
		if br.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
