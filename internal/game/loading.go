package game

import "math/rand"

const (
	rainCharHeight = 16
	rainColumnGap  = 20
	rainMinLength  = 5
	rainMaxLength  = 15
)

// rainStream is one falling column of the binary rain.
type rainStream struct {
	x          int
	y          float64
	speed      float64
	chars      []byte
	brightness []uint8
}

// LoadingAnimation is the binary-rain overlay shown while loading. It has
// no state-machine authority: it only consumes the progress fraction the
// engine supplies and animates around it.
type LoadingAnimation struct {
	width    int
	height   int
	progress float64 // monotonic within one load
	streams  []rainStream
	rng      *rand.Rand
}

// NewLoadingAnimation builds the rain streams for the given screen size.
func NewLoadingAnimation(width, height int) *LoadingAnimation {
	a := &LoadingAnimation{
		width:  width,
		height: height,
		rng:    rand.New(rand.NewSource(90210)), // #nosec G404 -- cosmetic only
	}
	count := width / rainColumnGap
	for i := 0; i < count; i++ {
		a.streams = append(a.streams, a.newStream())
	}
	return a
}

func (a *LoadingAnimation) newStream() rainStream {
	length := rainMinLength + a.rng.Intn(rainMaxLength-rainMinLength+1)
	s := rainStream{
		x:          a.rng.Intn(a.width),
		y:          -float64(a.rng.Intn(100)),
		speed:      2 + a.rng.Float64()*3,
		chars:      make([]byte, length),
		brightness: make([]uint8, length),
	}
	for i := range s.chars {
		s.chars[i] = '0' + byte(a.rng.Intn(2))
	}
	for i := range s.brightness {
		b := 255 - i*30
		if b < 50 {
			b = 50
		}
		s.brightness[i] = uint8(b)
	}
	return s
}

// SetProgress feeds the animation the current load fraction. The value is
// clamped to [0,1] and never moves backwards within a load.
func (a *LoadingAnimation) SetProgress(p float64) {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if p > a.progress {
		a.progress = p
	}
}

// Reset clears the progress for a new load.
func (a *LoadingAnimation) Reset() {
	a.progress = 0
}

// Progress returns the last supplied fraction.
func (a *LoadingAnimation) Progress() float64 { return a.progress }

// Step advances the rain by one frame.
func (a *LoadingAnimation) Step() {
	for i := range a.streams {
		s := &a.streams[i]
		s.y += s.speed
		if s.y > float64(a.height+len(s.chars)*rainCharHeight) {
			s.y = -float64(len(s.chars) * rainCharHeight)
			s.x = a.rng.Intn(a.width)
		}
		// Flicker: occasionally mutate one character.
		if a.rng.Float64() < 0.1 {
			s.chars[a.rng.Intn(len(s.chars))] = '0' + byte(a.rng.Intn(2))
		}
	}
}
