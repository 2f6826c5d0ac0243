// Package channel implements the unidirectional message queue connecting
// two cores of the duet machine.
//
// A Queue is an unbounded, order-preserving FIFO of signed 64-bit values
// with exactly one writer and one reader for the lifetime of a run. Pop
// never blocks; callers decide how to react to an empty queue. No locking
// is needed: the scheduler serializes all access within a tick.
package channel

import (
	"iter"
)

// Queue is a first-in first-out queue of signed 64-bit values.
type Queue struct {
	Data []int64
}

// Push appends a value at the tail of the queue.
func (q *Queue) Push(value int64) {
	q.Data = append(q.Data, value)
}

// Pop removes and returns the value at the head of the queue.
func (q *Queue) Pop() (value int64, ok bool) {
	value, ok = q.Peek()
	if ok {
		q.Data = q.Data[1:]
	}
	return
}

// Peek returns the value at the head of the queue without removing it.
func (q *Queue) Peek() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

// Len returns the number of undelivered values in the queue.
func (q *Queue) Len() int {
	return len(q.Data)
}

// Empty returns true if the queue holds no values.
func (q *Queue) Empty() bool {
	return len(q.Data) == 0
}

// Reset discards all undelivered values.
func (q *Queue) Reset() {
	if len(q.Data) > 0 {
		q.Data = q.Data[:0]
	}
}

// Values iterates the undelivered values in delivery order, head first.
// The queue is not modified.
func (q *Queue) Values() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for _, value := range q.Data {
			if !yield(value) {
				return
			}
		}
	}
}
