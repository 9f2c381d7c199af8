package node

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"sync/atomic"
)

// Context is the software backend. It renders fixed blocks of frames by
// pulling from the destination through the graph.
type Context struct {
	mu         sync.Mutex
	sampleRate float64
	frames     atomic.Int64
	block      int64
	dest       *Gain
	pending    []*Delay

	tasksMu   sync.Mutex
	tasks     taskHeap
	taskSeq   uint64
	lookahead float64

	// Rendered frames not yet handed to the reader
	carry    []float64
	carryPos int
}

var _ Backend = (*Context)(nil)

// NewContext creates a backend at sampleRate with its clock at zero
func NewContext(sampleRate float64) *Context {
	c := &Context{
		sampleRate: sampleRate,
		carry:      make([]float64, quantum),
		carryPos:   quantum,
	}
	c.dest = c.newGain()
	return c
}

// SetLookahead makes tasks fire that many seconds before their time
func (c *Context) SetLookahead(seconds float64) {
	c.tasksMu.Lock()
	c.lookahead = math.Max(0, seconds)
	c.tasksMu.Unlock()
}

func (c *Context) Lock()   { c.mu.Lock() }
func (c *Context) Unlock() { c.mu.Unlock() }

func (c *Context) SampleRate() float64 { return c.sampleRate }

// CurrentTime is the time of the next frame to be rendered
func (c *Context) CurrentTime() float64 {
	return float64(c.frames.Load()) / c.sampleRate
}

// FramesRendered is the total frame count produced so far
func (c *Context) FramesRendered() int64 {
	return c.frames.Load()
}

func (c *Context) Destination() Node { return c.dest }

func (c *Context) CreateBuffer(channels, length int) *Buffer {
	return NewBuffer(channels, length, c.sampleRate)
}

// frameAt converts a time to the first frame at or after it
func (c *Context) frameAt(t float64) int64 {
	if t <= 0 {
		return 0
	}
	return int64(math.Ceil(t*c.sampleRate - 1e-9))
}

// ReadFrames fills dst with consecutive output frames, rendering as needed
func (c *Context) ReadFrames(dst []float64) {
	n := 0
	for n < len(dst) {
		if c.carryPos >= len(c.carry) {
			c.runDueTasks()
			c.mu.Lock()
			c.renderBlock()
			c.mu.Unlock()
		}
		k := copy(dst[n:], c.carry[c.carryPos:])
		c.carryPos += k
		n += k
	}
}

// Render produces exactly frames output frames. Cancellation is checked
// between blocks.
func (c *Context) Render(ctx context.Context, frames int) ([]float64, error) {
	out := make([]float64, frames)
	for off := 0; off < frames; off += quantum {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(off+quantum, frames)
		c.ReadFrames(out[off:end])
	}
	return out, nil
}

func (c *Context) renderBlock() {
	blk := c.block
	out := c.dest.output(blk)

	// Commits can pull nodes that register further delays
	for i := 0; i < len(c.pending); i++ {
		c.pending[i].commit(blk)
	}
	clear(c.pending)
	c.pending = c.pending[:0]

	copy(c.carry, out)
	c.carryPos = 0
	c.block++
	c.frames.Add(quantum)
}

// Scheduled tasks

type task struct {
	at        float64
	seq       uint64
	fn        func()
	cancelled atomic.Bool
}

func (t *task) Cancel() { t.cancelled.Store(true) }

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Schedule queues fn to run before the block that reaches at - lookahead
func (c *Context) Schedule(at float64, fn func()) Task {
	c.tasksMu.Lock()
	defer c.tasksMu.Unlock()
	c.taskSeq++
	t := &task{at: at, seq: c.taskSeq, fn: fn}
	heap.Push(&c.tasks, t)
	return t
}

// PendingTasks counts queued, uncancelled tasks
func (c *Context) PendingTasks() int {
	c.tasksMu.Lock()
	defer c.tasksMu.Unlock()
	n := 0
	for _, t := range c.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}

func (c *Context) runDueTasks() {
	for {
		c.tasksMu.Lock()
		horizon := float64(c.frames.Load()+quantum)/c.sampleRate + c.lookahead
		if len(c.tasks) == 0 || c.tasks[0].at >= horizon {
			c.tasksMu.Unlock()
			return
		}
		t := heap.Pop(&c.tasks).(*task)
		c.tasksMu.Unlock()

		if !t.cancelled.Load() {
			t.fn()
		}
	}
}
