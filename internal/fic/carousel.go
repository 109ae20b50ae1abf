package fic

import (
	"github.com/magicbadger/dabmux/internal/fig"
	"github.com/magicbadger/dabmux/internal/model"
)

// entry tracks one FIG encoder's carousel scheduling state: the
// countdown (in CIFs) until it is next due.
type entry struct {
	enc       fig.Encoder
	countdown int
}

// Carousel holds the ordered set of active FIG encoders and drives
// them to fill FIBs for one CIF at a time (spec §4.3).
type Carousel struct {
	entries []*entry
	cursor  int // round-robin starting point among same-priority, same-due-ness ties
}

// NewCarousel builds a carousel from the given encoders, in the order
// they should be tried when ties arise.
func NewCarousel(encoders ...fig.Encoder) *Carousel {
	c := &Carousel{}
	for _, e := range encoders {
		c.entries = append(c.entries, &entry{enc: e, countdown: 0})
	}
	return c
}

// FillCIF produces fibsPerCIF FIBs (FIBSize bytes each) for one 24 ms
// CIF, consulting snap for the current ensemble state.
func (c *Carousel) FillCIF(snap *model.Snapshot, fibsPerCIF int) []byte {
	for _, e := range c.entries {
		if dyn, ok := e.enc.(fig.DynamicClassEncoder); ok {
			dyn.Observe(snap)
		}
	}
	for _, e := range c.entries {
		if e.countdown > 0 {
			e.countdown--
		}
	}

	out := make([]byte, 0, fibsPerCIF*FIBSize)
	for fibIdx := 0; fibIdx < fibsPerCIF; fibIdx++ {
		fibData := c.fillOneFIB(snap)
		if len(fibData) == 0 {
			out = append(out, emptyFIB()[:]...)
			continue
		}
		fib := packFIB(fibData)
		out = append(out, fib[:]...)
	}
	return out
}

// fillOneFIB drives due encoders, in priority order, into one FIB's
// data budget until it is full or every due encoder has been tried and
// none has room left. An encoder that declines the remaining budget is
// marked declined for the rest of this FIB and skipped, so a large due
// FIG selected first never starves a smaller due FIG that would have
// fit in what's left (spec §4.3 step 2: "iterates FIGs in priority
// order, asking each to fill"; step 4 closes the FIB only once no due
// FIG can fit).
func (c *Carousel) fillOneFIB(snap *model.Snapshot) []byte {
	data := make([]byte, 0, FIBDataSize)
	declined := make(map[int]bool)
	for {
		remaining := FIBDataSize - len(data)
		if remaining <= 0 {
			break
		}
		idx := c.nextDue(declined)
		if idx < 0 {
			break
		}
		e := c.entries[idx]
		n, complete := e.enc.Fill(data[len(data):cap(data)], remaining, snap)
		if n == 0 && !complete {
			// Encoder declined this budget; try the next due encoder
			// before giving up on the FIB. It stays due and will be
			// retried with a fresh budget next FIB/frame.
			declined[idx] = true
			continue
		}
		data = data[:len(data)+n]
		if complete {
			e.countdown = int(e.enc.Class())
		} else {
			e.countdown = 0
		}
		c.cursor = (idx + 1) % len(c.entries)
	}
	return data
}

// nextDue finds the next due, not-yet-declined entry to try, HIGH
// priority before NORMAL, ties broken by round-robin insertion order
// starting at c.cursor. Returns -1 if none remain.
func (c *Carousel) nextDue(declined map[int]bool) int {
	best := -1
	bestPriority := fig.PriorityNormal - 1
	n := len(c.entries)
	for offset := 0; offset < n; offset++ {
		idx := (c.cursor + offset) % n
		if declined[idx] {
			continue
		}
		e := c.entries[idx]
		if e.countdown > 0 {
			continue
		}
		p := e.enc.Priority()
		if p > bestPriority {
			bestPriority = p
			best = idx
		}
	}
	return best
}
