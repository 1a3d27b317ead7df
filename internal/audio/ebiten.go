package audio

import (
	"bytes"
	"fmt"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// NewEbitenSource returns a Source backed by an Ebiten audio context.
// pcm must return 16-bit little-endian stereo samples at SampleRate for
// the named cue.
//
// A nil context (no audio device) yields a source whose every call fails
// with ErrAudioUnavailable, so the game runs silently instead of crashing.
func NewEbitenSource(ctx *eaudio.Context, pcm func(name string) ([]byte, error)) Source {
	return func(name string, loop bool) (Player, error) {
		if ctx == nil {
			return nil, fmt.Errorf("cue %q: no audio context: %w", name, ErrAudioUnavailable)
		}
		data, err := pcm(name)
		if err != nil {
			return nil, fmt.Errorf("cue %q: %w: %v", name, ErrAudioUnavailable, err)
		}
		if !loop {
			return ctx.NewPlayerFromBytes(data), nil
		}
		stream := eaudio.NewInfiniteLoop(bytes.NewReader(data), int64(len(data)))
		p, err := ctx.NewPlayer(stream)
		if err != nil {
			return nil, fmt.Errorf("cue %q: %w: %v", name, ErrAudioUnavailable, err)
		}
		return p, nil
	}
}
