// SPDX-License-Identifier: NONE
package types

import "sync"

// SafeCounter is a thread-safe counter, used by batch.ParseAll to
// aggregate token and error counts across a pool of worker goroutines.
type SafeCounter struct {
	m   sync.Mutex
	val int
}

// Inc increments the counter.
func (c *SafeCounter) Inc() {
	c.m.Lock()
	defer c.m.Unlock()
	c.val++
}

// Add increments the counter by delta.
func (c *SafeCounter) Add(delta int) {
	c.m.Lock()
	defer c.m.Unlock()
	c.val += delta
}

// Value returns the current value of the counter.
func (c *SafeCounter) Value() int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.val
}
