package core

import (
	"sync"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// CommandQueue is the FIFO of operator-issued KVCommands: unbounded,
// practically bounded only by operator intent. Enqueue pushes to the
// front and the Proposal Streamer pops from the back, so the two
// together behave as a plain FIFO.
type CommandQueue struct {
	mu    sync.Mutex
	items []types.KVCommand
}

// NewCommandQueue builds an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Enqueue pushes cmd to the front of the queue.
func (q *CommandQueue) Enqueue(cmd types.KVCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]types.KVCommand{cmd}, q.items...)
}

// Dequeue pops the command at the back of the queue (the oldest
// enqueued one), returning ok == false if the queue is empty.
func (q *CommandQueue) Dequeue() (cmd types.KVCommand, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return types.KVCommand{}, false
	}
	last := len(q.items) - 1
	cmd = q.items[last]
	q.items = q.items[:last]
	return cmd, true
}

// Len reports the current queue depth, sampled by the Proposal
// Streamer once per tick.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
