package game

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"

	"github.com/sigmahq/sigma/internal/assets"
)

// tickDuration is the fixed frame time at Ebiten's default 60 TPS.
const tickDuration = time.Second / 60

// App is the Ebiten shell around the Engine: it translates keyboard input
// into discrete events, ticks the engine once per frame and renders the
// returned snapshot. All game logic lives in the Engine.
type App struct {
	engine *Engine
	log    zerolog.Logger

	width  int
	height int
	face   text.Face
	anim   *LoadingAnimation
	vm     ViewModel

	prevState State
}

// NewApp wires the engine to the window.
func NewApp(engine *Engine, provider *assets.Provider, width, height int, log zerolog.Logger) *App {
	face, err := provider.Font("fonts/terminal")
	if err != nil {
		log.Warn().Err(err).Msg("terminal font unavailable")
	}
	a := &App{
		engine: engine,
		log:    log,
		width:  width,
		height: height,
		anim:   NewLoadingAnimation(width, height),
	}
	if face != nil {
		a.face = text.NewGoXFace(face)
	}
	return a
}

func (a *App) Update() error {
	var events []Event
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		events = append(events, EventUp)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		events = append(events, EventDown)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		events = append(events, EventConfirm)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		events = append(events, EventBack)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		events = append(events, EventToggleMute)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyDebrief()
	}

	a.vm = a.engine.Tick(events, tickDuration)

	if a.vm.State == StateLoading {
		if a.prevState != StateLoading {
			a.anim.Reset()
		}
		a.anim.SetProgress(a.vm.LoadingFraction)
		a.anim.Step()
	}
	a.prevState = a.vm.State
	return nil
}

// copyDebrief puts the completion record on the system clipboard.
// Clipboard failures are cosmetic and only logged.
func (a *App) copyDebrief() {
	rec := a.vm.Record
	if a.vm.State != StateCompletion || rec == nil {
		return
	}
	debrief := fmt.Sprintf("SIGMA DEBRIEF\nmission: %s (#%d)\noutcome: %s\nelapsed: %.1fs\n",
		rec.Title, rec.MissionID, rec.Outcome, rec.Elapsed.Seconds())
	if err := clipboard.WriteAll(debrief); err != nil {
		a.log.Warn().Err(err).Msg("clipboard write failed")
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}
