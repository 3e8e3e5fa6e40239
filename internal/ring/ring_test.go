package ring

import (
	"runtime"
	"sync"
	"testing"
)

func TestCapacityIsFixed(t *testing.T) {
	b := New(16)
	if got := b.Capacity(); got != 16 {
		t.Fatalf("expected capacity 16, got %d", got)
	}

	// Pushing past capacity never grows the buffer.
	b.Push(make([]float32, 40))
	if got := b.Capacity(); got != 16 {
		t.Fatalf("capacity changed after overflow: %d", got)
	}
}

func TestPushPopInOrder(t *testing.T) {
	b := New(16)

	b.Push([]float32{0.1, 0.2, 0.3})
	b.Push([]float32{0.4, 0.5})

	if got := b.Available(); got != 5 {
		t.Fatalf("expected 5 available, got %d", got)
	}

	out := make([]float32, 5)
	n := b.Pop(out)
	if n != 5 {
		t.Fatalf("expected to pop 5 samples, got %d", n)
	}

	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], out[i])
		}
	}
}

func TestPopEmptyLeavesBufferUntouched(t *testing.T) {
	b := New(8)

	out := []float32{7, 7, 7}
	n := b.Pop(out)
	if n != 0 {
		t.Fatalf("expected 0 samples from empty ring, got %d", n)
	}
	for i, v := range out {
		if v != 7 {
			t.Fatalf("element %d was modified: %f", i, v)
		}
	}
}

func TestPopNeverExceedsAvailable(t *testing.T) {
	b := New(8)
	b.Push([]float32{1, 2})

	out := make([]float32, 6)
	n := b.Pop(out)
	if n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Fatalf("unexpected samples %v", out[:2])
	}
	// Remainder untouched (zero value).
	for i := 2; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("element %d was modified: %f", i, out[i])
		}
	}
}

func TestOverflowKeepsBoundedTail(t *testing.T) {
	b := New(4)

	// Push more than capacity between pops: only the samples past the
	// write cursor's final lap remain visible. Loss is bounded and the
	// producer never blocks.
	b.Push([]float32{1, 2, 3, 4, 5, 6})

	if got := b.Available(); got != 2 {
		t.Fatalf("expected 2 available after overflow, got %d", got)
	}

	out := make([]float32, 4)
	n := b.Pop(out)
	if n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}
	if out[0] != 5 || out[1] != 6 {
		t.Fatalf("expected newest samples 5,6, got %v", out[:2])
	}
}

func TestWraparound(t *testing.T) {
	b := New(4)

	for round := 0; round < 10; round++ {
		in := []float32{float32(round), float32(round) + 0.5}
		b.Push(in)

		out := make([]float32, 2)
		if n := b.Pop(out); n != 2 {
			t.Fatalf("round %d: expected 2 samples, got %d", round, n)
		}
		if out[0] != in[0] || out[1] != in[1] {
			t.Fatalf("round %d: expected %v, got %v", round, in, out)
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const total = 10000
	b := New(256)

	var wg sync.WaitGroup
	wg.Add(1)

	// Producer stays within capacity relative to the consumer by pushing
	// small chunks; the consumer drains as fast as it can.
	go func() {
		defer wg.Done()
		chunk := make([]float32, 16)
		for i := 0; i < total; i += len(chunk) {
			for j := range chunk {
				chunk[j] = float32(i + j)
			}
			b.Push(chunk)
			for b.Available() > 64 {
				// Let the consumer catch up so no data is lost.
				runtime.Gosched()
			}
		}
	}()

	got := make([]float32, 0, total)
	out := make([]float32, 32)
	for len(got) < total {
		n := b.Pop(out)
		got = append(got, out[:n]...)
	}
	wg.Wait()

	for i := range got {
		if got[i] != float32(i) {
			t.Fatalf("sample %d out of order: got %f", i, got[i])
		}
	}
}
