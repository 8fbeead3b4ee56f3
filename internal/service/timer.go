package service

import (
	"sync"
	"time"
)

// QuestionTimer drives one question's countdown: a tick callback every
// second and an expiry callback when the time budget elapses. Stop cancels
// the countdown without firing expiry.
type QuestionTimer struct {
	seconds  int
	onTick   func(elapsed, total int)
	onExpire func()
	stop     chan struct{}
	stopOnce sync.Once
}

func newQuestionTimer(seconds int, onTick func(elapsed, total int), onExpire func()) *QuestionTimer {
	return &QuestionTimer{
		seconds:  seconds,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Run counts the question down. Blocks; callers start it on its own
// goroutine.
func (t *QuestionTimer) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	elapsed := 0
	for {
		select {
		case <-ticker.C:
			elapsed++
			if elapsed < t.seconds {
				t.onTick(elapsed, t.seconds)
				continue
			}
			t.onTick(t.seconds, t.seconds)
			t.onExpire()
			return
		case <-t.stop:
			return
		}
	}
}

// Stop cancels the countdown. Safe to call more than once and concurrently
// with expiry; whichever happens first wins.
func (t *QuestionTimer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
