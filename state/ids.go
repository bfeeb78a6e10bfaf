package state

import (
	"strconv"
	"sync"
	"time"
)

// idGen produces timestamp-based ids like "store-1717000000000", bumping the
// millisecond value when two ids land in the same tick.
type idGen struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func (g *idGen) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return prefix + "-" + strconv.FormatInt(ms, 10)
}
