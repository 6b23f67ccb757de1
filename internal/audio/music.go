package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// DecodeMusic opens an mp3 or wav file, chosen by extension
func DecodeMusic(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open music: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported music format %q", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode music: %w", err)
	}
	return streamer, format, nil
}

// MusicLoop repeats a decoded track forever at the given volume, resampled
// to the output rate when needed
func MusicLoop(track beep.StreamSeeker, format beep.Format, rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer = beep.Loop(-1, track)
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}
	return newVolume(s, vol)
}
