package sim

import (
	"sync"
	"sync/atomic"
)

// Publisher fans snapshots out to subscribers over buffered channels. A
// subscriber whose buffer is full misses the frame; OnStep never blocks.
type Publisher struct {
	mu      sync.Mutex
	subs    map[chan Snapshot]struct{}
	closed  bool
	dropped atomic.Int64
}

func NewPublisher() *Publisher {
	return &Publisher{subs: make(map[chan Snapshot]struct{})}
}

// Subscribe returns a channel of snapshots and a function that cancels the
// subscription and closes the channel.
func (p *Publisher) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	p.mu.Lock()
	if p.closed {
		close(ch)
		p.mu.Unlock()
		return ch, func() {}
	}
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if _, ok := p.subs[ch]; ok {
				delete(p.subs, ch)
				close(ch)
			}
		})
	}
}

func (p *Publisher) OnStep(s *Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- s.Clone():
		default:
			p.dropped.Add(1)
		}
	}
}

// Dropped counts frames not delivered because a subscriber was behind.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Close ends every subscription.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for ch := range p.subs {
		close(ch)
		delete(p.subs, ch)
	}
}
