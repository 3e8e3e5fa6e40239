package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

func decodeVorbis(r io.Reader) ([]float32, error) {
	samples, _, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ogg vorbis: %w", err)
	}
	return samples, nil
}
