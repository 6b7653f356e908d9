// Package schedule is the host's scheduleAt/cancel primitive: a time-ordered
// callback queue drained from the host's single update goroutine, so no two
// callbacks ever run at the same time.
package schedule

import (
	"container/heap"
)

// Handle identifies a scheduled callback.
type Handle uint64

// Func receives the time it was scheduled for.
type Func func(at float64)

type entry struct {
	at     float64
	seq    uint64
	handle Handle
	fn     Func
	index  int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue holds pending callbacks ordered by time, then by insertion.
type Queue struct {
	entries entryHeap
	byID    map[Handle]*entry
	seq     uint64
}

func NewQueue() *Queue {
	return &Queue{byID: make(map[Handle]*entry)}
}

// ScheduleAt registers fn to run once the host reaches time at.
func (q *Queue) ScheduleAt(at float64, fn Func) Handle {
	q.seq++
	e := &entry{at: at, seq: q.seq, handle: Handle(q.seq), fn: fn}
	heap.Push(&q.entries, e)
	q.byID[e.handle] = e
	return e.handle
}

// Cancel removes a pending callback. It reports false if the callback has
// already run or was cancelled.
func (q *Queue) Cancel(h Handle) bool {
	e, ok := q.byID[h]
	if !ok {
		return false
	}
	delete(q.byID, h)
	heap.Remove(&q.entries, e.index)
	return true
}

// RunDue runs, in time order, every callback scheduled at or before now,
// including ones scheduled by callbacks during this call. It returns the
// number of callbacks run.
func (q *Queue) RunDue(now float64) int {
	ran := 0
	for len(q.entries) > 0 && q.entries[0].at <= now {
		e := heap.Pop(&q.entries).(*entry)
		delete(q.byID, e.handle)
		e.fn(e.at)
		ran++
	}
	return ran
}

// Len is the number of pending callbacks.
func (q *Queue) Len() int { return len(q.entries) }

// Next returns the time of the earliest pending callback.
func (q *Queue) Next() (float64, bool) {
	if len(q.entries) == 0 {
		return 0, false
	}
	return q.entries[0].at, true
}
