package adb

import (
	"strings"
	"sync"
)

const defaultRingCapacity = 200

// RingBuffer keeps the most recent lines written to it. It is an io.Writer
// so a child's stderr can be attached directly; a trailing partial line is
// held until its newline arrives or Lines is called.
type RingBuffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	head     int
	count    int
	dropped  int
	partial  strings.Builder
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultRingCapacity
	}
	return &RingBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	s := string(p)
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			rb.partial.WriteString(s)
			break
		}
		rb.partial.WriteString(s[:i])
		rb.push(strings.TrimRight(rb.partial.String(), "\r"))
		rb.partial.Reset()
		s = s[i+1:]
	}
	return len(p), nil
}

// Append adds one complete line.
func (rb *RingBuffer) Append(line string) {
	rb.mu.Lock()
	rb.push(line)
	rb.mu.Unlock()
}

func (rb *RingBuffer) push(line string) {
	if rb.count == rb.capacity {
		rb.dropped++
	}
	rb.lines[rb.head] = line
	rb.head = (rb.head + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}
}

// Lines returns the retained lines oldest first, including any unterminated
// trailing line.
func (rb *RingBuffer) Lines() []string {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	result := make([]string, 0, rb.count+1)
	if rb.count < rb.capacity {
		result = append(result, rb.lines[:rb.count]...)
	} else {
		// wrapped: oldest is at head
		result = append(result, rb.lines[rb.head:]...)
		result = append(result, rb.lines[:rb.head]...)
	}
	if rb.partial.Len() > 0 {
		result = append(result, rb.partial.String())
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Dropped counts lines pushed out by newer ones.
func (rb *RingBuffer) Dropped() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.dropped
}
