package app

import "sync"

// pending counts outstanding work and hands out a channel that is closed
// once the count drops to zero.
type pending struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (p *pending) add() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n == 0 {
		p.idle = make(chan struct{})
	}
	p.n++
}

func (p *pending) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n == 0 {
		return
	}
	p.n--
	if p.n == 0 {
		close(p.idle)
	}
}

// wait returns a channel closed when nothing is pending.
func (p *pending) wait() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return p.idle
}
