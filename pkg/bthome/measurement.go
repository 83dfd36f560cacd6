package bthome

import (
	"bytes"
	"math"
	"sort"
)

// Measurement is a fixed-capacity buffer of encoded sensor entries. Each
// entry starts with its object id. Writes that do not fit are rejected whole.
type Measurement struct {
	data     [MaxMeasurementSize + currentByte]byte
	entries  []span
	used     int
	reserved int
}

type span struct{ start, end int }

// newMeasurement returns an empty buffer that keeps reserved bytes free for
// payload framing (the encryption counter and MIC).
func newMeasurement(reserved int) Measurement {
	return Measurement{reserved: reserved}
}

// Len returns the number of bytes consumed by entries.
func (m *Measurement) Len() int { return m.used }

// Count returns the number of entries.
func (m *Measurement) Count() int { return len(m.entries) }

// Remaining returns the number of bytes still available for entries.
func (m *Measurement) Remaining() int {
	return MaxMeasurementSize - m.used + currentByte - m.reserved
}

// push appends one entry, or returns ErrCapacityExceeded without modifying
// the buffer.
func (m *Measurement) push(entry []byte) error {
	if len(entry) > m.Remaining() {
		return ErrCapacityExceeded
	}
	start := m.used
	m.used += copy(m.data[start:], entry)
	m.entries = append(m.entries, span{start: start, end: m.used})
	return nil
}

// Reset removes every entry.
func (m *Measurement) Reset() {
	clear(m.data[:])
	m.entries = m.entries[:0]
	m.used = 0
}

// Entries returns copies of the entries stably sorted by object id.
func (m *Measurement) Entries() [][]byte {
	order := make([]span, len(m.entries))
	copy(order, m.entries)
	sort.SliceStable(order, func(i, j int) bool {
		return m.data[order[i].start] < m.data[order[j].start]
	})

	out := make([][]byte, len(order))
	for i, s := range order {
		out[i] = bytes.Clone(m.data[s.start:s.end])
	}
	return out
}

// Bytes returns the canonical payload: entries sorted by object id and
// concatenated.
func (m *Measurement) Bytes() []byte {
	return bytes.Join(m.Entries(), nil)
}

// Steps is an optional step count carried in the high byte of a state value.
type Steps struct {
	n   uint8
	set bool
}

// NoSteps sends the state byte alone.
var NoSteps = Steps{}

// WithSteps packs n into the high byte of the state value.
func WithSteps(n uint8) Steps { return Steps{n: n, set: true} }

// Value returns the step count and whether one is present.
func (s Steps) Value() (uint8, bool) { return s.n, s.set }

func stateValue(state uint8, steps Steps) uint64 {
	if !steps.set {
		return uint64(state)
	}
	return uint64(steps.n)<<8 | uint64(state)
}

func checkWidth(width uint8) error {
	if width < 1 || width > 8 {
		return ErrInvalidWidth
	}
	return nil
}

// scaled divides value by scale. A zero scale leaves the value unchanged.
func scaled(value, scale float64) (float64, error) {
	switch {
	case scale == 0:
		return value, nil
	case scale < 0, math.IsNaN(scale), math.IsInf(scale, 0):
		return 0, ErrInvalidScale
	}
	return value / scale, nil
}

const two64 = 1 << 64

// toRaw rounds x to the nearest integer and returns its two's complement
// representation modulo 2^64.
func toRaw(x float64) uint64 {
	x = math.Round(x)
	if x < 0 && x >= math.MinInt64 {
		return uint64(int64(x))
	}
	x = math.Mod(x, two64)
	if x < 0 {
		x += two64
	}
	if x >= two64 {
		return 0
	}
	return uint64(x)
}

// encode writes id followed by the low width bytes of raw, little-endian.
func encode(dst []byte, id uint8, raw uint64, width uint8) []byte {
	dst = append(dst, id)
	for i := uint8(0); i < width; i++ {
		dst = append(dst, byte(raw>>(8*i)))
	}
	return dst
}
