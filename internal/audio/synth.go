package audio

import (
	"math"
	"math/rand"
	"time"
)

// SampleRate is the PCM sample rate for all synthesized cues.
const SampleRate = 44100

// Every cue is 16-bit little-endian stereo PCM. The generators are seeded
// deterministically so a cue sounds identical across runs.

func appendSample(buf []byte, v float64) []byte {
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	s := int16(v * 32767)
	lo := byte(s)
	hi := byte(s >> 8)
	// stereo: identical left/right
	return append(buf, lo, hi, lo, hi)
}

func sampleCount(dur time.Duration) int {
	return int(float64(SampleRate) * dur.Seconds())
}

// Beep generates a plain sine tone.
func Beep(freq float64, dur time.Duration) []byte {
	n := sampleCount(dur)
	buf := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		buf = appendSample(buf, math.Sin(2*math.Pi*freq*t)*0.5)
	}
	return buf
}

// Glitch generates a burst of sparse random clicks, used for failure and
// hack-start cues.
func Glitch(dur time.Duration) []byte {
	rng := rand.New(rand.NewSource(1337)) // #nosec G404 -- cue synthesis only
	n := sampleCount(dur)
	samples := make([]float64, n)
	for i := 0; i < n/10; i++ {
		samples[rng.Intn(n)] = rng.Float64()*2 - 1
	}
	buf := make([]byte, 0, n*4)
	for _, v := range samples {
		buf = appendSample(buf, v*0.3)
	}
	return buf
}

// Download generates a rising 200→1000 Hz sweep with light noise, the
// classic data-transfer sound.
func Download(dur time.Duration) []byte {
	rng := rand.New(rand.NewSource(2048)) // #nosec G404 -- cue synthesis only
	n := sampleCount(dur)
	buf := make([]byte, 0, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n)
		freq := 200 + progress*800
		phase += 2 * math.Pi * freq / SampleRate
		v := math.Sin(phase) * 0.3
		if rng.Float64() < 0.1 {
			v += rng.Float64()*0.2 - 0.1
		}
		buf = appendSample(buf, v)
	}
	return buf
}

// Decrypt generates a 100→1100→100 Hz sine sweep with occasional digital
// noise, used for the success cue.
func Decrypt(dur time.Duration) []byte {
	rng := rand.New(rand.NewSource(4096)) // #nosec G404 -- cue synthesis only
	n := sampleCount(dur)
	buf := make([]byte, 0, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n)
		freq := 100 + math.Sin(progress*math.Pi)*1000
		phase += 2 * math.Pi * freq / SampleRate
		v := math.Sin(phase) * 0.4
		if rng.Float64() < 0.05 {
			v = rng.Float64()*2 - 1
		}
		buf = appendSample(buf, v)
	}
	return buf
}

// arpeggio concatenates short tones into a loopable phrase.
func arpeggio(freqs []float64, noteDur time.Duration) []byte {
	var buf []byte
	for _, f := range freqs {
		buf = append(buf, Beep(f, noteDur)...)
	}
	return buf
}

// Synth builds the PCM data for a named cue. Unknown names fall back to a
// plain beep, mirroring the original's default-sound behavior.
func Synth(name string) []byte {
	switch name {
	case "select":
		return Beep(440, 50*time.Millisecond)
	case "confirm":
		return Beep(660, 100*time.Millisecond)
	case "back":
		return Beep(220, 50*time.Millisecond)
	case "hack_start":
		return Glitch(3 * time.Second)
	case "download":
		return Download(2 * time.Second)
	case "decrypt", "success":
		return Decrypt(time.Second)
	case "failure":
		return Glitch(1500 * time.Millisecond)
	case "abort":
		return Beep(160, 400*time.Millisecond)
	case "menu_theme":
		return arpeggio([]float64{220, 262, 330, 262}, 300*time.Millisecond)
	case "mission_theme":
		return arpeggio([]float64{110, 110, 131, 98}, 350*time.Millisecond)
	case "loading_loop":
		return Download(1500 * time.Millisecond)
	default:
		return Beep(440, 100*time.Millisecond)
	}
}
