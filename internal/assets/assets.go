// Package assets loads images, fonts and sound buffers by key and hands
// out ready-to-use handles. Loads are cached, so re-requesting a key after
// a menu round-trip is cheap and idempotent.
//
// Keys are relative paths under the assets directory, classed by their
// first segment: "images/...", "fonts/...", "sounds/...".
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/sigmahq/sigma/internal/audio"
)

// ErrResourceMissing is returned when an asset key cannot be resolved.
var ErrResourceMissing = errors.New("resource missing")

// terminalFontSize is the point size for the terminal typeface.
const terminalFontSize = 14

// Provider loads and caches game assets.
type Provider struct {
	dir string
	log zerolog.Logger

	mu     sync.Mutex
	images map[string]*ebiten.Image
	fonts  map[string]font.Face
	sounds map[string][]byte
}

// New creates a Provider rooted at dir.
func New(dir string, log zerolog.Logger) *Provider {
	return &Provider{
		dir:    dir,
		log:    log,
		images: make(map[string]*ebiten.Image),
		fonts:  make(map[string]font.Face),
		sounds: make(map[string][]byte),
	}
}

// Load resolves a key into the cache. Repeat calls for a loaded key are
// no-ops.
func (p *Provider) Load(key string) error {
	switch {
	case strings.HasPrefix(key, "images/"):
		_, err := p.Image(key)
		return err
	case strings.HasPrefix(key, "fonts/"):
		_, err := p.Font(key)
		return err
	case strings.HasPrefix(key, "sounds/"):
		_, err := p.Sound(key)
		return err
	default:
		return fmt.Errorf("key %q: unknown asset class: %w", key, ErrResourceMissing)
	}
}

// Image returns the decoded image for a key like "images/logo".
func (p *Provider) Image(key string) (*ebiten.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if img, ok := p.images[key]; ok {
		return img, nil
	}
	path := filepath.Join(p.dir, key+".png")
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("image %q: %w: %v", key, ErrResourceMissing, err)
	}
	p.images[key] = img
	return img, nil
}

// Font returns the terminal typeface for a key like "fonts/terminal".
// When no font file is present it falls back to the built-in bitmap face,
// so the game always has something readable.
func (p *Provider) Font(key string) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.fonts[key]; ok {
		return f, nil
	}
	path := filepath.Join(p.dir, key+".ttf")
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Debug().Str("key", key).Msg("font file missing, using bitmap fallback")
		p.fonts[key] = basicfont.Face7x13
		return basicfont.Face7x13, nil
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w: %v", key, ErrResourceMissing, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    terminalFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q: %w: %v", key, ErrResourceMissing, err)
	}
	p.fonts[key] = face
	return face, nil
}

// Sound returns raw PCM for a key like "sounds/confirm". A .wav file in
// the assets dir wins; otherwise the cue is synthesized from the key's
// base name, mirroring the original load-or-synthesize behavior.
func (p *Provider) Sound(key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pcm, ok := p.sounds[key]; ok {
		return pcm, nil
	}
	name := strings.TrimPrefix(key, "sounds/")
	path := filepath.Join(p.dir, key+".wav")
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		stream, err := wav.DecodeWithSampleRate(audio.SampleRate, f)
		if err != nil {
			return nil, fmt.Errorf("sound %q: %w: %v", key, ErrResourceMissing, err)
		}
		pcm, err := io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("sound %q: %w: %v", key, ErrResourceMissing, err)
		}
		p.sounds[key] = pcm
		return pcm, nil
	}
	pcm := audio.Synth(name)
	p.sounds[key] = pcm
	return pcm, nil
}
