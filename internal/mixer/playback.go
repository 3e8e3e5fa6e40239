package mixer

// filePlayback holds a fully decoded audio file plus the cursor state
// needed to mix it into render buffers sample by sample. The sample
// sequence is immutable once created; only the render side advances the
// cursor.
type filePlayback struct {
	samples  []float32
	position int
	gain     float32
}

func newFilePlayback(samples []float32, gain float32) *filePlayback {
	return &filePlayback{samples: samples, gain: clamp01(gain)}
}

// mixInto adds sample*gain onto the existing contents of out, advancing
// the cursor, and reports whether any data remains. Once exhausted it
// returns false from that call onward. Callable from a real-time render
// callback: no allocation, no blocking, bounded by len(out).
func (fp *filePlayback) mixInto(out []float32) bool {
	for i := range out {
		if fp.position >= len(fp.samples) {
			return false
		}
		out[i] += fp.samples[fp.position] * fp.gain
		fp.position++
	}
	return fp.position < len(fp.samples)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
