// Package devices enumerates system audio endpoints and opens capture and
// render streams on them.
package devices

import "errors"

var (
	// ErrNotFound means a named device is absent from the host.
	ErrNotFound = errors.New("not found")
	// ErrNoDefault means no device name was given and the host reports no
	// default device for that direction.
	ErrNoDefault = errors.New("no default device available")
)

// Stream is a live capture or render session. Close stops the device
// stream before releasing it and does not return until it has stopped.
type Stream interface {
	Close() error
}

// Directory resolves named capture/render endpoints and opens streams on
// them. An empty name selects the host default device. Stream callbacks
// run on real-time audio threads and must not block or allocate.
type Directory interface {
	// ListInputs returns the names of all capture devices. Enumeration is
	// advisory: on host errors it returns an empty list rather than failing.
	ListInputs() []string
	// ListOutputs returns the names of all render devices.
	ListOutputs() []string
	// OpenCapture opens and starts a capture stream on the named device.
	// onSamples receives interleaved float32 buffers at the device's
	// native configuration.
	OpenCapture(name string, onSamples func([]float32)) (Stream, error)
	// OpenRender opens and starts a render stream on the named device.
	// onRender must fill every slot of the buffer it is handed.
	OpenRender(name string, onRender func([]float32)) (Stream, error)
	// Close releases the host audio subsystem.
	Close() error
}
