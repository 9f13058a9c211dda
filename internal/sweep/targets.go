package sweep

import (
	"sync"
)

// Generator produces the lazy cross-product of the IP range and the port
// set in row-major order: outer loop over addresses ascending, inner loop
// over ports in the supplied order. Memory use is O(1) beyond the cursor,
// so a /16 range times five ports never materializes a target list.
//
// Next is safe for concurrent use; the session's workers pull from a single
// shared generator. A generator cannot be rewound, only reconstructed.
type Generator struct {
	mu sync.Mutex

	cur     uint32
	end     uint32
	ports   []uint16
	portIdx int

	emitted uint64
	max     uint64
	total   uint64
	done    bool
}

// NewGenerator creates a generator over the validated range and port set.
func NewGenerator(cfg ValidatedConfig) *Generator {
	return &Generator{
		cur:   cfg.Start,
		end:   cfg.End,
		ports: cfg.Ports,
		max:   cfg.MaxTargets,
		total: cfg.TargetCount(),
	}
}

// Next returns the next target in generation order. The second return value
// is false once the range is exhausted or the safety cap was reached.
func (g *Generator) Next() (Target, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done || len(g.ports) == 0 {
		return Target{}, false
	}
	if g.max > 0 && g.emitted >= g.max {
		g.done = true
		return Target{}, false
	}

	t := Target{Addr: g.cur, Port: g.ports[g.portIdx]}
	g.emitted++

	g.portIdx++
	if g.portIdx == len(g.ports) {
		g.portIdx = 0
		if g.cur == g.end {
			g.done = true
		} else {
			g.cur++
		}
	}

	return t, true
}

// Total returns the number of targets this generator will produce.
func (g *Generator) Total() uint64 {
	return g.total
}

// Emitted returns how many targets have been handed out so far.
func (g *Generator) Emitted() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.emitted
}
