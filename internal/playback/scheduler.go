package playback

import (
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned cancel func is called.
// Cancel must not block waiting for an in-flight fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs tasks on their own goroutine driven by time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualScheduler never fires on its own; Fire runs every live task once.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	task := &manualTask{interval: interval, fn: fn}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		task.cancelled = true
		s.mu.Unlock()
	}
}

// Fire runs each live task once and returns how many ran.
func (s *ManualScheduler) Fire() int {
	live := s.live()
	for _, task := range live {
		task.fn()
	}
	return len(live)
}

// FireN calls Fire n times.
func (s *ManualScheduler) FireN(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

// Live returns the number of tasks not yet cancelled.
func (s *ManualScheduler) Live() int {
	return len(s.live())
}

// Interval returns the interval of the most recently scheduled live task, or
// zero when nothing is scheduled.
func (s *ManualScheduler) Interval() time.Duration {
	live := s.live()
	if len(live) == 0 {
		return 0
	}
	return live[len(live)-1].interval
}

func (s *ManualScheduler) live() []*manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*manualTask, 0, len(s.tasks))
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.cancelled {
			continue
		}
		kept = append(kept, task)
		out = append(out, task)
	}
	s.tasks = kept
	return out
}
