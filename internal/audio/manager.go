// Package audio coordinates sound cues across playback categories.
//
// At most one cue is active per category. Replacing an active cue fades the
// old one out completely before the new one starts. Audio is a side channel:
// every failure surfaces as ErrAudioUnavailable, which callers log and drop.
package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrAudioUnavailable is returned when the audio backend cannot service an
// operation. It never blocks game-state transitions.
var ErrAudioUnavailable = errors.New("audio unavailable")

// Category is a playback channel class. Each category plays at most one cue.
type Category int

const (
	CategoryMusic Category = iota
	CategorySFX

	categoryCount
)

func (c Category) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategorySFX:
		return "sfx"
	default:
		return "unknown"
	}
}

// Options control how a cue starts.
type Options struct {
	Loop   bool
	FadeIn time.Duration
	Volume float64 // 0..1; 0 means full volume
}

// Player is one playback handle. *ebiten audio.Player satisfies it.
type Player interface {
	Play()
	Pause()
	SetVolume(volume float64)
	IsPlaying() bool
	Close() error
}

// Source builds a playback handle for a named cue.
type Source func(name string, loop bool) (Player, error)

// pendingCue is a cue waiting for the previous one to finish fading out.
type pendingCue struct {
	name string
	opts Options
}

type channel struct {
	cue      string
	player   Player
	vol      float64 // current cue volume, before category/mute scaling
	target   float64
	rate     float64 // volume units per second; 0 = no fade in progress
	stopping bool
	pending  *pendingCue
}

// Manager owns the per-category channels. It is driven from the game's
// single-threaded tick loop; Step advances fades once per tick.
type Manager struct {
	src         Source
	log         zerolog.Logger
	defaultFade time.Duration
	channels    [categoryCount]channel
	catVol      [categoryCount]float64
	muted       bool
}

// New creates a Manager over the given source. defaultFade is used when a
// replacement or stop does not request an explicit fade duration.
func New(src Source, defaultFade time.Duration, log zerolog.Logger) *Manager {
	m := &Manager{src: src, log: log, defaultFade: defaultFade}
	for i := range m.catVol {
		m.catVol[i] = 1.0
	}
	return m
}

// Play starts a cue in the category. If another cue is active there it is
// faded out first and the new cue starts once the old one is fully stopped.
func (m *Manager) Play(name string, cat Category, opts Options) error {
	if cat < 0 || cat >= categoryCount {
		return fmt.Errorf("play %q: unknown category %d: %w", name, cat, ErrAudioUnavailable)
	}
	ch := &m.channels[cat]
	if ch.player == nil {
		return m.start(cat, name, opts)
	}

	fade := m.defaultFade
	if opts.FadeIn > 0 {
		fade = opts.FadeIn
	}
	ch.pending = &pendingCue{name: name, opts: opts}
	m.beginFadeOut(cat, fade)
	return nil
}

// Stop fades out and stops whatever is active in the category.
// No-op when the category is silent.
func (m *Manager) Stop(cat Category, fade time.Duration) {
	if cat < 0 || cat >= categoryCount {
		return
	}
	ch := &m.channels[cat]
	if ch.player == nil {
		return
	}
	ch.pending = nil
	if fade <= 0 {
		fade = m.defaultFade
	}
	m.beginFadeOut(cat, fade)
}

// SetVolume sets the category volume scale (0..1).
func (m *Manager) SetVolume(cat Category, level float64) {
	if cat < 0 || cat >= categoryCount {
		return
	}
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	m.catVol[cat] = level
	m.apply(cat)
}

// ToggleMute flips the mute flag and returns the new value. Cues keep
// running while muted so unmuting resumes mid-track.
func (m *Manager) ToggleMute() bool {
	m.muted = !m.muted
	for cat := Category(0); cat < categoryCount; cat++ {
		m.apply(cat)
	}
	return m.muted
}

// Muted reports the mute flag.
func (m *Manager) Muted() bool { return m.muted }

// Active returns the cue name currently playing in the category, if any.
// A cue that is fading out no longer counts as active.
func (m *Manager) Active(cat Category) (string, bool) {
	if cat < 0 || cat >= categoryCount {
		return "", false
	}
	ch := &m.channels[cat]
	if ch.player == nil || ch.stopping {
		return "", false
	}
	return ch.cue, true
}

// Step advances fades by dt. Must be called once per game tick.
func (m *Manager) Step(dt time.Duration) {
	for cat := Category(0); cat < categoryCount; cat++ {
		ch := &m.channels[cat]
		if ch.player == nil || ch.rate == 0 {
			continue
		}
		step := ch.rate * dt.Seconds()
		if ch.vol > ch.target {
			ch.vol -= step
			if ch.vol <= ch.target {
				ch.vol = ch.target
				ch.rate = 0
			}
		} else {
			ch.vol += step
			if ch.vol >= ch.target {
				ch.vol = ch.target
				ch.rate = 0
			}
		}
		m.apply(cat)

		if ch.stopping && ch.rate == 0 {
			m.release(cat)
			if p := ch.pending; p != nil {
				ch.pending = nil
				if err := m.start(cat, p.name, p.opts); err != nil {
					m.log.Warn().Err(err).Str("cue", p.name).Msg("queued cue failed to start")
				}
			}
		}
	}
}

// Close stops and releases every channel.
func (m *Manager) Close() {
	for cat := Category(0); cat < categoryCount; cat++ {
		if m.channels[cat].player != nil {
			m.release(cat)
		}
		m.channels[cat].pending = nil
	}
}

func (m *Manager) start(cat Category, name string, opts Options) error {
	p, err := m.src(name, opts.Loop)
	if err != nil {
		return fmt.Errorf("start cue %q (%s): %w", name, cat, err)
	}
	ch := &m.channels[cat]
	vol := opts.Volume
	if vol <= 0 || vol > 1 {
		vol = 1.0
	}
	ch.cue = name
	ch.player = p
	ch.stopping = false
	if opts.FadeIn > 0 {
		ch.vol = 0
		ch.target = vol
		ch.rate = vol / opts.FadeIn.Seconds()
	} else {
		ch.vol = vol
		ch.target = vol
		ch.rate = 0
	}
	m.apply(cat)
	p.Play()
	return nil
}

func (m *Manager) beginFadeOut(cat Category, fade time.Duration) {
	ch := &m.channels[cat]
	ch.stopping = true
	ch.target = 0
	if fade <= 0 || ch.vol <= 0 {
		ch.vol = 0
		ch.rate = 0
		m.apply(cat)
		// Snap stop: resolve immediately on the next Step. Resolve now so
		// a zero-fade replacement does not wait a tick.
		m.release(cat)
		if p := ch.pending; p != nil {
			ch.pending = nil
			if err := m.start(cat, p.name, p.opts); err != nil {
				m.log.Warn().Err(err).Str("cue", p.name).Msg("queued cue failed to start")
			}
		}
		return
	}
	ch.rate = ch.vol / fade.Seconds()
}

// release stops and closes the channel's player, leaving pending intact.
func (m *Manager) release(cat Category) {
	ch := &m.channels[cat]
	ch.player.Pause()
	if err := ch.player.Close(); err != nil {
		m.log.Warn().Err(err).Str("cue", ch.cue).Msg("player close failed")
	}
	ch.player = nil
	ch.cue = ""
	ch.stopping = false
	ch.vol = 0
	ch.target = 0
	ch.rate = 0
}

func (m *Manager) apply(cat Category) {
	ch := &m.channels[cat]
	if ch.player == nil {
		return
	}
	v := ch.vol * m.catVol[cat]
	if m.muted {
		v = 0
	}
	ch.player.SetVolume(v)
}
