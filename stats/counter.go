package stats

import (
	"time"

	"github.com/omniscale/osmdocs/element"
	"github.com/omniscale/osmdocs/log"
)

// checkEvery is the number of elements between two clock reads.
const checkEvery = 1 << 12

// Progress wraps an element.Scanner, counts all elements and reports the
// progress as [progress] log lines.
type Progress struct {
	scanner    element.Scanner
	name       string
	interval   time.Duration
	count      int64
	lastCount  int64
	start      time.Time
	lastReport time.Time
}

// NewProgress returns a Progress that reports every second.
func NewProgress(name string, s element.Scanner) *Progress {
	now := time.Now()
	return &Progress{
		scanner:    s,
		name:       name,
		interval:   time.Second,
		start:      now,
		lastReport: now,
	}
}

func (p *Progress) Next() (*element.Element, error) {
	e, err := p.scanner.Next()
	if err != nil {
		return e, err
	}
	p.count++
	ElementsScanned.WithLabelValues(e.Tag).Inc()
	if p.count%checkEvery == 0 {
		if now := time.Now(); now.Sub(p.lastReport) >= p.interval {
			p.report(now)
		}
	}
	return e, nil
}

func (p *Progress) report(now time.Time) {
	dur := now.Sub(p.lastReport)
	rps := int64(float64(p.count-p.lastCount) / dur.Seconds())
	log.Printf("[progress] %s: %10d elements %8d/s", p.name, p.count, rps)
	p.lastCount = p.count
	p.lastReport = now
}

// Count returns the number of elements returned so far.
func (p *Progress) Count() int64 {
	return p.count
}

// Rps returns the average number of elements per second since the start.
func (p *Progress) Rps() float64 {
	d := time.Since(p.start).Seconds()
	if d == 0 {
		return 0
	}
	return float64(p.count) / d
}
