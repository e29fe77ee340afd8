package organizer

import (
	"container/heap"

	"github.com/baiirun/taskorg/internal/model"
)

// priorityQueue is a min-heap of tasks ordered by model.ComparePriority.
type priorityQueue []model.Task

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return model.ComparePriority(pq[i], pq[j]) < 0 }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(model.Task))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	t := old[n-1]
	*pq = old[:n-1]
	return t
}

// drain returns the queue's contents in pop order without touching pq.
func (pq priorityQueue) drain() []model.Task {
	c := make(priorityQueue, len(pq))
	copy(c, pq)
	out := make([]model.Task, 0, len(c))
	for c.Len() > 0 {
		out = append(out, heap.Pop(&c).(model.Task))
	}
	return out
}

// without returns a heap holding every element whose ID is not id.
func (pq priorityQueue) without(id string) priorityQueue {
	kept := make(priorityQueue, 0, len(pq))
	for _, t := range pq {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	heap.Init(&kept)
	return kept
}
