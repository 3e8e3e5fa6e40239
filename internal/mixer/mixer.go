// Package mixer implements the real-time mixing engine: one live capture
// stream summed with at most one decoded file, scaled by a master volume
// and written to one render stream.
package mixer

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/compulsive-quake/rage-pad/internal/devices"
	"github.com/compulsive-quake/rage-pad/internal/ring"
)

// DecodeFunc turns a file path into interleaved float32 samples in [-1, 1].
type DecodeFunc func(path string) ([]float32, error)

// DefaultRingCapacity holds half a second of 48 kHz stereo audio.
const DefaultRingCapacity = 48000

// Options configures a Mixer.
type Options struct {
	Devices devices.Directory
	Decode  DecodeFunc
	Logger  zerolog.Logger
	// RingCapacity overrides the capture ring size in samples. Zero
	// selects DefaultRingCapacity.
	RingCapacity int
}

// Status is a snapshot of the mixer's transport state.
type Status struct {
	Playing bool
	Paused  bool
	Volume  float32
	// InputDevice and OutputDevice are the selected device names, empty
	// when no explicit selection has been made.
	InputDevice  string
	OutputDevice string
}

// Mixer owns the capture and render streams, the sample ring between
// them, and the active file playback. Exported methods are for a single
// control goroutine; the capture and render callbacks touch only the
// atomics, the ring and the try-locked playback slot.
type Mixer struct {
	dir    devices.Directory
	decode DecodeFunc
	log    zerolog.Logger

	inputName  string
	outputName string

	playing atomic.Bool
	paused  atomic.Bool
	volume  atomic.Uint32 // master volume as float32 bits

	// The playback slot is swapped as a unit (samples, cursor, gain), so
	// it sits behind a mutex. The render callback takes it with TryLock
	// and skips file mixing for one buffer on contention; the real-time
	// side must never block here.
	mu       sync.Mutex
	playback *filePlayback

	capture devices.Stream
	render  devices.Stream

	ringBuf *ring.Buffer
}

// New creates an idle mixer. No streams are opened yet.
func New(opts Options) *Mixer {
	capacity := opts.RingCapacity
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	m := &Mixer{
		dir:     opts.Devices,
		decode:  opts.Decode,
		log:     opts.Logger,
		ringBuf: ring.New(capacity),
	}
	m.volume.Store(math.Float32bits(1.0))
	m.log.Debug().Int("ring_capacity", m.ringBuf.Capacity()).Msg("Mixer created")
	return m
}

// SetInputDeviceName records a capture device selection without opening a
// stream; StartCapture will use it.
func (m *Mixer) SetInputDeviceName(name string) { m.inputName = name }

// SetOutputDeviceName records a render device selection without opening a
// stream; StartOutput will use it.
func (m *Mixer) SetOutputDeviceName(name string) { m.outputName = name }

// SetInputDevice selects the capture device by exact name and (re)opens
// the capture stream on it.
func (m *Mixer) SetInputDevice(name string) error {
	m.inputName = name
	return m.StartCapture()
}

// SetOutputDevice selects the render device by exact name and (re)opens
// the render stream on it.
func (m *Mixer) SetOutputDevice(name string) error {
	m.outputName = name
	return m.StartOutput()
}

// StartCapture opens a capture stream on the selected (or default) input
// device. Any previous capture stream is closed first, so a failure
// leaves no stream open on the capture side rather than a stale one.
func (m *Mixer) StartCapture() error {
	if m.capture != nil {
		if err := m.capture.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Failed to close previous capture stream")
		}
		m.capture = nil
	}

	stream, err := m.dir.OpenCapture(m.inputName, func(in []float32) {
		if m.paused.Load() {
			return
		}
		m.ringBuf.Push(in)
	})
	if err != nil {
		return err
	}

	m.capture = stream
	m.log.Info().Str("device", m.inputName).Msg("Capture stream started")
	return nil
}

// StartOutput opens a render stream on the selected (or default) output
// device, closing any previous one first.
func (m *Mixer) StartOutput() error {
	if m.render != nil {
		if err := m.render.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Failed to close previous render stream")
		}
		m.render = nil
	}

	stream, err := m.dir.OpenRender(m.outputName, m.renderInto)
	if err != nil {
		return err
	}

	m.render = stream
	m.log.Info().Str("device", m.outputName).Msg("Render stream started")
	return nil
}

// renderInto is the render callback. Per invocation it zeroes the buffer,
// passes the mic through, mixes any active file on top, applies the
// master volume and clamps. It runs on a real-time thread.
func (m *Mixer) renderInto(out []float32) {
	for i := range out {
		out[i] = 0
	}

	if m.paused.Load() {
		return
	}

	// Mic pass-through straight from the capture ring.
	m.ringBuf.Pop(out)

	// Mix the file on top. On lock contention with the control thread we
	// skip the file for this one buffer instead of blocking.
	if m.playing.Load() && m.mu.TryLock() {
		if m.playback != nil && !m.playback.mixInto(out) {
			m.playback = nil
		}
		m.mu.Unlock()
	}

	if v := m.Volume(); v != 1.0 {
		for i := range out {
			out[i] *= v
		}
	}

	// Clamp to avoid hard clipping after summation.
	for i := range out {
		if out[i] > 1.0 {
			out[i] = 1.0
		} else if out[i] < -1.0 {
			out[i] = -1.0
		}
	}
}

// PlayFile decodes the file and installs it as the active playback,
// replacing any existing one. On decode failure the prior playback state
// is left untouched.
func (m *Mixer) PlayFile(path string, volume float32) error {
	samples, err := m.decode(path)
	if err != nil {
		return err
	}

	fp := newFilePlayback(samples, volume)
	m.mu.Lock()
	m.playback = fp
	m.mu.Unlock()
	m.playing.Store(true)

	m.log.Info().Str("file", path).Int("samples", len(samples)).Msg("Playback started")
	return nil
}

// Stop ends file playback immediately. Stopping an idle mixer is a no-op.
func (m *Mixer) Stop() {
	m.playing.Store(false)
	m.mu.Lock()
	m.playback = nil
	m.mu.Unlock()
}

// Pause silences both mic pass-through and file mixing without closing
// any stream.
func (m *Mixer) Pause() { m.paused.Store(true) }

// Resume restores mixing after a pause.
func (m *Mixer) Resume() { m.paused.Store(false) }

// SetVolume stores the master volume, clamped to [0, 1]. It takes effect
// on the next render callback.
func (m *Mixer) SetVolume(v float32) {
	m.volume.Store(math.Float32bits(clamp01(v)))
}

// Volume returns the current master volume.
func (m *Mixer) Volume() float32 {
	return math.Float32frombits(m.volume.Load())
}

// IsPlaying reports whether a file is still being mixed. The playing flag
// can lag one buffer behind the render callback clearing an exhausted
// playback, so a set flag is reconciled against the actual slot before
// being reported.
func (m *Mixer) IsPlaying() bool {
	if !m.playing.Load() {
		return false
	}
	if m.mu.TryLock() {
		empty := m.playback == nil
		m.mu.Unlock()
		if empty {
			m.playing.Store(false)
			return false
		}
	}
	return true
}

// Status snapshots the transport state.
func (m *Mixer) Status() Status {
	return Status{
		Playing:      m.IsPlaying(),
		Paused:       m.paused.Load(),
		Volume:       m.Volume(),
		InputDevice:  m.inputName,
		OutputDevice: m.outputName,
	}
}

// Close tears down both streams. The mixer must not be used afterwards.
func (m *Mixer) Close() error {
	var first error
	if m.capture != nil {
		if err := m.capture.Close(); err != nil {
			first = err
		}
		m.capture = nil
	}
	if m.render != nil {
		if err := m.render.Close(); err != nil && first == nil {
			first = err
		}
		m.render = nil
	}
	return first
}
