// Package decode turns audio files into normalized sample sequences for
// the mixer. Supported formats are WAV (PCM), MP3 and Ogg Vorbis, chosen
// by file extension. All decoders yield interleaved float32 samples in
// [-1, 1] at the file's native sample rate and channel layout.
package decode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// File decodes the audio file at path into interleaved float32 samples
// normalized to [-1, 1].
func File(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg", ".oga":
		return decodeVorbis(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
