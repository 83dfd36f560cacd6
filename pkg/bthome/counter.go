package bthome

// Counter is the encryption replay counter. Each value is handed out at most
// once; the counter never wraps.
//
// Counter is not safe for concurrent use. It shares the device's
// mutual-exclusion domain.
type Counter struct {
	value     uint32
	exhausted bool
}

// NewCounter creates a counter whose first value is initial.
// Used when restoring a counter persisted by the caller.
func NewCounter(initial uint32) *Counter {
	return &Counter{value: initial}
}

// Next returns the current value and advances the counter by one.
// Returns ErrCounterExhausted after 0xFFFFFFFF has been handed out.
func (c *Counter) Next() (uint32, error) {
	if c.exhausted {
		return 0, ErrCounterExhausted
	}

	current := c.value
	c.value++
	if c.value == 0 {
		c.exhausted = true
	}
	return current, nil
}

// Peek returns the value the next call to Next will hand out. ok is false
// once the counter is exhausted.
func (c *Counter) Peek() (value uint32, ok bool) {
	return c.value, !c.exhausted
}
