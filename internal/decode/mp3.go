package decode

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode mp3: %w", err)
	}

	// go-mp3 yields 16-bit little-endian stereo PCM bytes.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("cannot decode mp3: %w", err)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}
