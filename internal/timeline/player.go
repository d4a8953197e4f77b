package timeline

import (
	"sync"
	"time"
)

// Playback speed bounds.
const (
	DefaultInterval = 100 * time.Millisecond
	MinInterval     = 20 * time.Millisecond
	MaxInterval     = 5 * time.Second
)

// Player is the cyclic frame state machine. It alternates snapshot and diff
// frames and wraps to the first frame after the last one. Advancing is driven
// by an injected Scheduler; Tick advances manually.
type Player struct {
	mu       sync.Mutex
	sched    Scheduler
	onFrame  func(Frame)
	count    int
	pos      int
	interval time.Duration
	running  bool
	stop     func()
	// epoch increments on every Start/Stop so ticks from a cancelled schedule
	// are dropped.
	epoch uint64
}

// New returns a stopped player at frame 0. A nil scheduler uses
// TickerScheduler. onFrame, if non-nil, is called after every scheduled
// advance, outside the player lock.
func New(sched Scheduler, onFrame func(Frame)) *Player {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &Player{sched: sched, onFrame: onFrame, interval: DefaultInterval}
}

// Start begins advancing every interval. Calling Start while running with the
// same interval is a no-op; a different interval restarts the schedule. A
// non-positive interval keeps the current one.
func (p *Player) Start(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	interval = p.clampInterval(interval)
	if p.running && interval == p.interval {
		return
	}
	p.cancelLocked()
	p.interval = interval
	p.running = true
	epoch := p.epoch
	p.stop = p.sched.Every(interval, func() { p.scheduledTick(epoch) })
}

// Stop halts advancement. It is idempotent. Once Stop returns no scheduled
// tick is applied; a tick already past the check may still finish.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

// Toggle starts a stopped player or stops a running one and reports whether
// the player is now running.
func (p *Player) Toggle() bool {
	if p.Running() {
		p.Stop()
		return false
	}
	p.Start(0)
	return true
}

// Running reports whether the scheduler is driving the player.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Interval returns the current tick interval.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the speed, restarting the schedule when running.
func (p *Player) SetInterval(interval time.Duration) {
	p.mu.Lock()
	running := p.running
	if !running {
		p.interval = p.clampInterval(interval)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.Start(interval)
}

// Current returns the frame at the current position.
func (p *Player) Current() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return FrameAt(p.pos, p.count)
}

// Count returns the number of snapshots the player cycles over.
func (p *Player) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Tick advances one frame, wrapping at the end of the cycle.
func (p *Player) Tick() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stepLocked(1)
}

// Prev steps back one frame, wrapping to the last frame from the first.
func (p *Player) Prev() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stepLocked(-1)
}

// Seek moves to frame position pos. Out-of-range positions are clamped.
func (p *Player) Seek(pos int) Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := FrameCount(p.count)
	switch {
	case total == 0:
		p.pos = 0
	case pos < 0:
		p.pos = 0
	case pos >= total:
		p.pos = total - 1
	default:
		p.pos = pos
	}
	return FrameAt(p.pos, p.count)
}

// SeekSnapshot moves to the frame showing snapshot i.
func (p *Player) SeekSnapshot(i int) Frame {
	return p.Seek(SnapshotPosition(i))
}

// SetCount updates the number of snapshots. If the current position falls
// outside the new cycle it resets to 0.
func (p *Player) SetCount(n int) Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 0 {
		n = 0
	}
	p.count = n
	if p.pos >= FrameCount(n) {
		p.pos = 0
	}
	return FrameAt(p.pos, p.count)
}

func (p *Player) scheduledTick(epoch uint64) {
	p.mu.Lock()
	if !p.running || epoch != p.epoch {
		p.mu.Unlock()
		return
	}
	f := p.stepLocked(1)
	cb := p.onFrame
	p.mu.Unlock()

	if cb != nil {
		cb(f)
	}
}

func (p *Player) stepLocked(delta int) Frame {
	total := FrameCount(p.count)
	if total == 0 {
		p.pos = 0
		return Frame{Kind: FrameNone}
	}
	p.pos = ((p.pos+delta)%total + total) % total
	return FrameAt(p.pos, p.count)
}

func (p *Player) cancelLocked() {
	p.epoch++
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
	p.running = false
}

func (p *Player) clampInterval(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return p.interval
	case d < MinInterval:
		return MinInterval
	case d > MaxInterval:
		return MaxInterval
	default:
		return d
	}
}
