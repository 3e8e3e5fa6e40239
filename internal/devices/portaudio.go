package devices

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type portAudioDirectory struct{}

// New initializes PortAudio and returns a Directory backed by it.
func New() (Directory, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioDirectory{}, nil
}

func (d *portAudioDirectory) ListInputs() []string  { return listNames(true) }
func (d *portAudioDirectory) ListOutputs() []string { return listNames(false) }

func listNames(input bool) []string {
	names := []string{}
	devs, err := portaudio.Devices()
	if err != nil {
		return names
	}
	for _, dev := range devs {
		if input && dev.MaxInputChannels > 0 {
			names = append(names, dev.Name)
		} else if !input && dev.MaxOutputChannels > 0 {
			names = append(names, dev.Name)
		}
	}
	return names
}

// resolve finds the named device, or the host default when name is empty.
// Name matching is exact.
func resolve(name string, input bool) (*portaudio.DeviceInfo, error) {
	side := "output"
	if input {
		side = "input"
	}

	if name == "" {
		var dev *portaudio.DeviceInfo
		var err error
		if input {
			dev, err = portaudio.DefaultInputDevice()
		} else {
			dev, err = portaudio.DefaultOutputDevice()
		}
		if err != nil || dev == nil {
			return nil, fmt.Errorf("%s: %w", side, ErrNoDefault)
		}
		return dev, nil
	}

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, dev := range devs {
		usable := dev.MaxInputChannels > 0
		if !input {
			usable = dev.MaxOutputChannels > 0
		}
		if usable && dev.Name == name {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("%s device %q: %w", side, name, ErrNotFound)
}

func (d *portAudioDirectory) OpenCapture(name string, onSamples func([]float32)) (Stream, error) {
	dev, err := resolve(name, true)
	if err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: clampChannels(dev.MaxInputChannels),
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      dev.DefaultSampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, onSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start capture stream: %w", err)
	}
	return &paStream{stream}, nil
}

func (d *portAudioDirectory) OpenRender(name string, onRender func([]float32)) (Stream, error) {
	dev, err := resolve(name, false)
	if err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: clampChannels(dev.MaxOutputChannels),
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      dev.DefaultSampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, onRender)
	if err != nil {
		return nil, fmt.Errorf("failed to open render stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start render stream: %w", err)
	}
	return &paStream{stream}, nil
}

func (d *portAudioDirectory) Close() error {
	return portaudio.Terminate()
}

// clampChannels keeps streams mono or stereo regardless of how many
// channels the hardware advertises.
func clampChannels(max int) int {
	if max >= 2 {
		return 2
	}
	return max
}

type paStream struct {
	s *portaudio.Stream
}

func (p *paStream) Close() error {
	// Stop is synchronous: it returns once the callback is no longer
	// being invoked. Close afterwards releases the stream.
	if err := p.s.Stop(); err != nil {
		p.s.Close()
		return err
	}
	return p.s.Close()
}
