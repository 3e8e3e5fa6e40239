package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeWAV builds a canonical 44-byte-header PCM16 mono WAV file.
func writeWAV(t *testing.T, samples []int16) string {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(48000))
	binary.Write(&buf, binary.LittleEndian, uint32(48000*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileWAV(t *testing.T) {
	path := writeWAV(t, []int16{0, 16384, -16384, 32767, -32768})

	got, err := File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(got))
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1.0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "cannot open file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.flac")
	if err := os.WriteFile(path, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := File(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFileCorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFFgarbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := File(path); err == nil {
		t.Fatal("expected error for corrupt wav data")
	}
}

func TestFileCorruptMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte("definitely not mpeg frames"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := File(path); err == nil {
		t.Fatal("expected error for corrupt mp3 data")
	}
}

func TestFileCorruptVorbis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ogg")
	if err := os.WriteFile(path, []byte("OggSnope"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := File(path); err == nil {
		t.Fatal("expected error for corrupt ogg data")
	}
}
