package download

import "sync"

// progressState holds the byte counters shared between the transfer
// goroutine (writer) and the UI loop (reader). The mutex is held only
// for the duration of a read or write, never across I/O. The percent
// value is tracked monotonically so a backend reporting quirk (such as
// a final callback slightly overshooting the total) can never make the
// displayed percentage jump around or leave [0,100].
type progressState struct {
	mu      sync.Mutex
	total   int64
	current int64
	percent int
}

func (p *progressState) set(total, current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = current

	if total > 0 {
		pct := int(current * 100 / total)
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		if pct > p.percent {
			p.percent = pct
		}
	}
}

// snapshot returns the counters and the clamped percentage. known is
// false while the server has not reported a total.
func (p *progressState) snapshot() (current, total int64, percent int, known bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.total, p.percent, p.total > 0
}
