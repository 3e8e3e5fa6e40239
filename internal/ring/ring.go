// Package ring provides a single-producer/single-consumer circular buffer
// for float32 samples. It carries live capture audio from the capture
// callback to the render callback, both of which run on real-time threads,
// so Push and Pop never block and never allocate.
package ring

import "sync/atomic"

// Buffer is a fixed-capacity SPSC ring of float32 samples. Exactly one
// goroutine (or OS callback thread) may call Push and exactly one may call
// Pop, concurrently. On overflow the writer overwrites the oldest unread
// samples; the producer never waits for the consumer.
type Buffer struct {
	buf []float32

	// write cursor, owned by the producer; read cursor, owned by the
	// consumer. Both are indices into buf. Atomic stores publish the
	// samples written before them.
	write atomic.Int64
	read  atomic.Int64
}

// New creates a Buffer holding up to capacity samples. Capacity is fixed
// for the lifetime of the buffer.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer{buf: make([]float32, capacity)}
}

// Capacity returns the fixed sample capacity.
func (b *Buffer) Capacity() int { return len(b.buf) }

// Available returns an approximate count of unread samples. It is a hint
// only: the producer may push more samples immediately after it returns.
func (b *Buffer) Available() int {
	w := int(b.write.Load())
	r := int(b.read.Load())
	if w >= r {
		return w - r
	}
	return len(b.buf) - r + w
}

// Push appends samples, overwriting the oldest unread samples if the
// consumer has fallen more than a full capacity behind. Producer-only.
func (b *Buffer) Push(samples []float32) {
	n := len(b.buf)
	w := int(b.write.Load())
	for _, s := range samples {
		b.buf[w] = s
		w++
		if w == n {
			w = 0
		}
	}
	b.write.Store(int64(w))
}

// Pop copies up to len(out) of the oldest available samples into out and
// returns how many were written. The remainder of out is left untouched.
// Consumer-only.
func (b *Buffer) Pop(out []float32) int {
	avail := b.Available()
	n := len(out)
	if avail < n {
		n = avail
	}
	size := len(b.buf)
	r := int(b.read.Load())
	for i := 0; i < n; i++ {
		out[i] = b.buf[r]
		r++
		if r == size {
			r = 0
		}
	}
	b.read.Store(int64(r))
	return n
}
