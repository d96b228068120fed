package astar

import (
	"container/heap"

	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// frontierEntry is a cell waiting for expansion. seq records insertion order
// so that equal priorities come out first-in, first-out.
type frontierEntry struct {
	cell     grid.Cell
	priority int
	seq      uint64
}

// entryHeap implements heap.Interface ordered by (priority, seq).
type entryHeap []frontierEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(frontierEntry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// frontier is a min-priority queue of cells. A cell may be queued several
// times; stale entries are filtered by the cost comparison in Search.
type frontier struct {
	entries entryHeap
	next    uint64
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(&f.entries)
	return f
}

// Empty reports whether no entries remain.
func (f *frontier) Empty() bool { return f.entries.Len() == 0 }

// Len returns the number of queued entries, stale ones included.
func (f *frontier) Len() int { return f.entries.Len() }

// Insert queues c with the given priority. Lower priorities come out first.
func (f *frontier) Insert(c grid.Cell, priority int) {
	heap.Push(&f.entries, frontierEntry{cell: c, priority: priority, seq: f.next})
	f.next++
}

// ExtractMin removes and returns the cell with the lowest priority. ok is
// false when the frontier is empty.
func (f *frontier) ExtractMin() (c grid.Cell, ok bool) {
	if f.Empty() {
		return grid.Cell{}, false
	}
	e := heap.Pop(&f.entries).(frontierEntry)
	return e.cell, true
}
