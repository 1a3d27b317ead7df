package assets

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/sigmahq/sigma/internal/audio"
)

func TestLoad_UnknownClass(t *testing.T) {
	p := New(t.TempDir(), zerolog.Nop())

	err := p.Load("music/theme")
	assert.ErrorIs(t, err, ErrResourceMissing)
}

func TestImage_Missing(t *testing.T) {
	p := New(t.TempDir(), zerolog.Nop())

	_, err := p.Image("images/logo")
	assert.ErrorIs(t, err, ErrResourceMissing)
}

func TestFont_FallsBackToBitmapFace(t *testing.T) {
	p := New(t.TempDir(), zerolog.Nop())

	face, err := p.Font("fonts/terminal")
	require.NoError(t, err)
	assert.Equal(t, basicfont.Face7x13, face)
}

func TestSound_SynthesizedFallbackIsCached(t *testing.T) {
	p := New(t.TempDir(), zerolog.Nop())

	first, err := p.Sound("sounds/confirm")
	require.NoError(t, err)
	assert.Equal(t, audio.Synth("confirm"), first)

	second, err := p.Sound("sounds/confirm")
	require.NoError(t, err)
	// Same backing slice: the second call was a cache hit.
	assert.Same(t, &first[0], &second[0])
}

func TestLoad_IsIdempotent(t *testing.T) {
	p := New(t.TempDir(), zerolog.Nop())

	require.NoError(t, p.Load("sounds/select"))
	require.NoError(t, p.Load("sounds/select"))
	require.NoError(t, p.Load("fonts/terminal"))
	require.NoError(t, p.Load("fonts/terminal"))
}
