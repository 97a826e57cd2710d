package fifoqueue

import (
	"sync"

	"github.com/gammazero/deque"
)

// FIFOQueue implements variable size synchronized FIFO queue with any number of consumers
type FIFOQueue[T any] struct {
	d       *deque.Deque[T]
	mutex   sync.Mutex
	cond    *sync.Cond
	closing bool
}

func New[T any]() *FIFOQueue[T] {
	ret := &FIFOQueue[T]{
		d: new(deque.Deque[T]),
	}
	ret.cond = sync.NewCond(&ret.mutex)
	return ret
}

// Write pushes element
func (q *FIFOQueue[T]) Write(elem T) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closing {
		panic("attempt to write to the closed FIFOQueue")
	}
	q.d.PushBack(elem)
	q.cond.Signal()
}

// Close closes FIFOQueue deferred until all elements are read
func (q *FIFOQueue[T]) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closing = true
	q.cond.Broadcast()
}

// read blocks until an element is available. Returns false when the queue is closed and empty
func (q *FIFOQueue[T]) read() (T, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for q.d.Len() == 0 && !q.closing {
		q.cond.Wait()
	}
	if q.d.Len() == 0 {
		var nothing T
		return nothing, false
	}
	return q.d.PopFront(), true
}

// Consume reads elements of the queue until it is closed and empty
func (q *FIFOQueue[T]) Consume(fun func(elem T)) {
	for {
		e, ok := q.read()
		if !ok {
			break
		}
		fun(e)
	}
}

// Len returns number of elements in the queue. Non-deterministic
func (q *FIFOQueue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.d.Len()
}
