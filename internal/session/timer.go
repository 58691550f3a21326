package session

import (
	"sync"
	"time"
)

// RoundTimer owns the two one-shot alarms of a match: the active-round window
// and the inter-round transition window. Arming one always disarms the other
// so the two can never fire for the same round. Callbacks run on the timer
// goroutine and must re-enter the session through its own lock.
type RoundTimer struct {
	mu sync.Mutex

	roundDuration      time.Duration
	transitionDuration time.Duration

	onRoundExpired      func()
	onTransitionExpired func()

	round      *time.Timer
	transition *time.Timer
	roundArmed bool
	roundGen   int
	transGen   int
	roundStart time.Time

	now func() time.Time // test seam
}

func NewRoundTimer(roundDuration, transitionDuration time.Duration, onRoundExpired, onTransitionExpired func()) *RoundTimer {
	return &RoundTimer{
		roundDuration:       roundDuration,
		transitionDuration:  transitionDuration,
		onRoundExpired:      onRoundExpired,
		onTransitionExpired: onTransitionExpired,
		now:                 time.Now,
	}
}

// StartRound disarms the transition alarm and (re)arms the round alarm,
// recording the round's start timestamp.
func (t *RoundTimer) StartRound() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTransitionLocked()
	t.stopRoundLocked()

	t.roundGen++
	gen := t.roundGen
	t.roundStart = t.now()
	t.roundArmed = true
	t.round = time.AfterFunc(t.roundDuration, func() {
		if !t.disarmRound(gen) {
			return
		}
		t.onRoundExpired()
	})
}

// StartTransition disarms the round alarm and arms the transition alarm.
func (t *RoundTimer) StartTransition() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopRoundLocked()
	t.stopTransitionLocked()

	t.transGen++
	gen := t.transGen
	t.transition = time.AfterFunc(t.transitionDuration, func() {
		if !t.expireTransition(gen) {
			return
		}
		t.onTransitionExpired()
	})
}

// StopAll disarms both alarms.
func (t *RoundTimer) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopRoundLocked()
	t.stopTransitionLocked()
}

// PointsRemaining returns the configured round duration minus the whole
// seconds elapsed since the round started, floored at zero. It returns zero
// while the round alarm is not armed.
func (t *RoundTimer) PointsRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.roundArmed {
		return 0
	}
	elapsed := int(t.now().Sub(t.roundStart).Seconds())
	remaining := int(t.roundDuration.Seconds()) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// disarmRound consumes the armed state for the given generation. A stale
// generation means the alarm was stopped or re-armed after this fire was
// already scheduled.
func (t *RoundTimer) disarmRound(gen int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.roundGen || !t.roundArmed {
		return false
	}
	t.roundArmed = false
	return true
}

func (t *RoundTimer) expireTransition(gen int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.transGen || t.transition == nil {
		return false
	}
	t.transition = nil
	return true
}

func (t *RoundTimer) stopRoundLocked() {
	if t.round != nil {
		t.round.Stop()
		t.round = nil
	}
	t.roundArmed = false
	t.roundGen++
}

func (t *RoundTimer) stopTransitionLocked() {
	if t.transition != nil {
		t.transition.Stop()
		t.transition = nil
	}
	t.transGen++
}
