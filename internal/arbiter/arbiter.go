// Package arbiter decides which of several concurrent requesters may draw on
// a single LED output.
//
// Every requester holds a Guard with a priority. Only the prioritized guard,
// the live guard with the highest priority (earliest acquired on ties), has
// its frames forwarded to the sink. Acquire, Reacquire and Release take a
// short lock; Show never does. A guard may therefore lose priority between
// the check and the write, so a single frame from the previous owner can
// still reach the sink right after a hand-over.
package arbiter

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

// Sink is the output a Controller forwards frames to. Buffers are in
// canonical order; the sink translates them to wire order.
type Sink interface {
	Show(pixels domain.Buffer) error
	Shutdown() error
}

// Controller arbitrates access to a Sink.
type Controller struct {
	sink Sink
	log  zerolog.Logger

	mu    sync.Mutex
	live  []*Guard
	order uint64

	prioritized atomic.Pointer[Guard]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for priority changes.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController creates a controller in front of sink.
func NewController(sink Sink, opts ...Option) *Controller {
	c := &Controller{
		sink: sink,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show sends pixels to the sink regardless of any guard.
func (c *Controller) Show(pixels domain.Buffer) error {
	return c.sink.Show(pixels)
}

// Shutdown blanks the output, bypassing arbitration.
func (c *Controller) Shutdown() error {
	return c.sink.Shutdown()
}

// Acquire registers a new requester with the given priority.
func (c *Controller) Acquire(priority uint8) *Guard {
	g := &Guard{c: c}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acquire(g, priority)
	return g
}

// Guards returns the number of live guards.
func (c *Controller) Guards() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

// Prioritized returns the guard currently allowed to draw, or nil.
func (c *Controller) Prioritized() *Guard {
	return c.prioritized.Load()
}

// acquire must be called with c.mu held.
func (c *Controller) acquire(g *Guard, priority uint8) {
	c.order++
	g.priority = priority
	g.order = c.order
	c.live = append(c.live, g)

	current := c.prioritized.Load()
	if current == nil || priority > current.priority {
		c.prioritized.Store(g)
		c.log.Debug().Uint8("priority", priority).Uint64("guard", g.order).Msg("guard took priority")
	}
}

// release must be called with c.mu held.
func (c *Controller) release(g *Guard) {
	idx := -1
	for i, live := range c.live {
		if live == g {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("arbiter: guard released but not acquired")
	}
	c.live = append(c.live[:idx], c.live[idx+1:]...)

	var top *Guard
	for _, live := range c.live {
		if top == nil || live.priority > top.priority {
			top = live
		}
	}
	if previous := c.prioritized.Swap(top); previous != top && top != nil {
		c.log.Debug().Uint8("priority", top.priority).Uint64("guard", top.order).Msg("guard took priority")
	}
}

// Guard is one requester's claim on a Controller. It must be released when
// the requester is done and must not be copied.
type Guard struct {
	c *Controller

	// priority and order are guarded by c.mu. The prioritized guard's
	// priority is also read by acquire under the same lock.
	priority uint8
	order    uint64
}

// Priority returns the guard's current priority.
func (g *Guard) Priority() uint8 {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	return g.priority
}

// Prioritized reports whether this guard may currently draw.
func (g *Guard) Prioritized() bool {
	return g.c.prioritized.Load() == g
}

// Show forwards pixels to the sink if this guard is prioritized. It returns
// false, without error, when the frame was dropped.
func (g *Guard) Show(pixels domain.Buffer) (bool, error) {
	if g.c.prioritized.Load() != g {
		return false, nil
	}
	if err := g.c.sink.Show(pixels); err != nil {
		return true, fmt.Errorf("show: %w", err)
	}
	return true, nil
}

// Reacquire changes the priority. The guard then ranks as the most recently
// acquired among equal priorities. Nothing happens if priority is unchanged.
func (g *Guard) Reacquire(priority uint8) {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	if g.priority == priority {
		return
	}
	g.c.release(g)
	g.c.acquire(g, priority)
}

// Release removes the guard from its controller. Releasing a guard twice
// panics.
func (g *Guard) Release() {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	g.c.release(g)
}
