package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	lineClearBaseFreq = 523.25 // C5
	lineClearDuration = 180 * time.Millisecond
	gameOverFreq      = 110.0
	gameOverDuration  = 900 * time.Millisecond

	toneAttack = 5 * time.Millisecond
)

// envelope fades a stream in over attack and out over release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, false
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or less is silent.
// effects.Volume works in powers of Base, hence the log.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func tone(freq float64, duration time.Duration, rate beep.SampleRate, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	timed := beep.Take(rate.N(duration), sine)
	shaped := NewEnvelope(timed, duration, toneAttack, duration/2, rate)
	return newVolume(shaped, vol), nil
}

// LineClearFreq returns the pitch for clearing lines rows at once; each
// extra row raises it by a major third
func LineClearFreq(lines int) float64 {
	steps := max(lines, 1) - 1
	return lineClearBaseFreq * math.Pow(2, float64(steps*4)/12)
}

// LineClearTone is a short chime whose pitch rises with the rows cleared
func LineClearTone(lines int, rate beep.SampleRate, vol float64) (beep.Streamer, error) {
	return tone(LineClearFreq(lines), lineClearDuration, rate, vol)
}

// GameOverTone is a long low note, with its fifth underneath
func GameOverTone(rate beep.SampleRate, vol float64) (beep.Streamer, error) {
	root, err := tone(gameOverFreq, gameOverDuration, rate, 0.7)
	if err != nil {
		return nil, err
	}
	fifth, err := tone(gameOverFreq*2/3, gameOverDuration, rate, 0.3)
	if err != nil {
		return nil, err
	}
	return newVolume(beep.Mix(root, fifth), vol), nil
}
